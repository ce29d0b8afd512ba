package discord

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/keshon/ceres/internal/logsink"
)

// Presence keeps the bot's game status in line with a status file or a fixed text.
type Presence struct {
	set  func(status string) error
	text string
	file string
	sink *logsink.Sink

	mu   sync.Mutex
	last string
}

// NewPresence builds a Presence. set applies a status on the platform.
func NewPresence(set func(status string) error, text, file string, sink *logsink.Sink) *Presence {
	return &Presence{set: set, text: text, file: file, sink: sink}
}

// Status returns the first non-empty line of the status file, or the fixed
// text when no file is configured.
func (p *Presence) Status() (string, error) {
	if p.file == "" {
		return strings.TrimSpace(p.text), nil
	}
	f, err := os.Open(p.file)
	if err != nil {
		return "", fmt.Errorf("open status file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read status file: %w", err)
	}
	return strings.TrimSpace(p.text), nil
}

// Refresh applies the current status. An empty status is not sent.
func (p *Presence) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	status, err := p.Status()
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.set(status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if status != p.last {
		p.sink.Log(logsink.Info, "presence", "status set to %q", status)
		p.last = status
	}
	return nil
}

// Schedule refreshes on the cron spec until ctx is done. An empty spec
// returns at once.
func (p *Presence) Schedule(ctx context.Context, spec string) error {
	if spec == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := p.Refresh(ctx); err != nil {
			p.sink.Log(logsink.Warning, "presence", "scheduled refresh: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid status schedule %q: %w", spec, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
