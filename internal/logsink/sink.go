// Package logsink is the process log destination: an append-only file rotated
// by size, mirrored to a coloured console.
package logsink

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// DefaultMaxSize is the size past which the active file is rotated.
const DefaultMaxSize int64 = 1024 * 1024

// archiveLayout prefixes rotated files: <archiveLayout>_<basename>.
const archiveLayout = "20060102T150405Z"

// Sink writes Records to a file and to the console. Rotation check and append
// happen under one lock, so a Sink is safe for concurrent use.
type Sink struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	file    *os.File
	size    int64
	now     func() time.Time

	console *zerolog.Logger
	noColor bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithMaxSize overrides DefaultMaxSize.
func WithMaxSize(n int64) Option {
	return func(s *Sink) { s.maxSize = n }
}

// WithClock overrides time.Now, for timestamps and archive names.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// WithConsole mirrors records to w instead of stdout. A nil w disables the mirror.
func WithConsole(w io.Writer, noColor bool) Option {
	return func(s *Sink) {
		s.noColor = noColor
		s.console = nil
		if w != nil {
			s.console = newConsole(w, noColor)
		}
	}
}

// New opens (creating if needed) the log file at path.
func New(path string, opts ...Option) (*Sink, error) {
	out := colorable.NewColorableStdout()
	noColor := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	s := &Sink{
		path:    path,
		maxSize: DefaultMaxSize,
		now:     time.Now,
		noColor: noColor,
	}
	s.console = newConsole(out, noColor)
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the canonical log file path.
func (s *Sink) Path() string { return s.path }

// Write appends r to the file, rotating first when the file has grown past
// the size limit, and mirrors it to the console.
func (s *Sink) Write(r Record) error {
	if r.Time.IsZero() {
		r.Time = s.now()
	}
	r.Time = r.Time.UTC().Truncate(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("log sink %s is closed", s.path)
	}
	if s.size > s.maxSize {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	n, err := io.WriteString(s.file, r.Line()+"\n")
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("write log: %w", err)
	}

	if s.console != nil {
		mirror(s.console, r)
	}
	return nil
}

// Log formats and writes a record. Write failures fall back to the standard logger.
func (s *Sink) Log(sev Severity, source, format string, args ...any) {
	rec := Record{Severity: sev, Source: source, Message: fmt.Sprintf(format, args...)}
	if err := s.Write(rec); err != nil {
		log.Printf("[ERR] %v (record: %s)", err, rec.Message)
	}
}

// Fault records err at Error severity.
func (s *Sink) Fault(source string, err error, format string, args ...any) {
	rec := Record{Severity: Error, Source: source, Message: fmt.Sprintf(format, args...), Err: err}
	if werr := s.Write(rec); werr != nil {
		log.Printf("[ERR] %v (fault: %v)", werr, err)
	}
}

// Close flushes and closes the active file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *Sink) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	s.file = f
	s.size = info.Size()
	return nil
}

// rotate renames the active file to its archive name and reopens the canonical path.
func (s *Sink) rotate() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	s.file = nil

	archive := s.archiveName()
	if err := os.Rename(s.path, archive); err != nil {
		// Keep logging into the oversized file rather than losing records.
		if oerr := s.open(); oerr != nil {
			return oerr
		}
		return fmt.Errorf("rotate log file: %w", err)
	}
	return s.open()
}

func (s *Sink) archiveName() string {
	dir, base := filepath.Dir(s.path), filepath.Base(s.path)
	stamp := s.now().UTC().Format(archiveLayout)
	name := filepath.Join(dir, stamp+"_"+base)
	for i := 1; fileExists(name); i++ {
		name = filepath.Join(dir, fmt.Sprintf("%s-%d_%s", stamp, i, base))
	}
	return name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
