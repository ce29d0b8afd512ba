package logsink

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// ANSI colour per severity, used for the console level tag.
var consoleColors = map[Severity]int{
	Critical: 31,
	Error:    31,
	Warning:  33,
	Info:     37,
	Debug:    32,
	Verbose:  90,
}

// severityNamed maps a Severity name back to its value.
func severityNamed(name string) (Severity, bool) {
	i := slices.Index(severityNames[:], name)
	return Severity(i), i >= 0
}

// newConsole builds the console mirror. Records are written as level-less
// events carrying the severity name in the level field, so zerolog's global
// level never drops them.
func newConsole(w io.Writer, noColor bool) *zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      noColor,
		TimeFormat:   TimeLayout,
		TimeLocation: time.UTC,
		FormatLevel: func(i interface{}) string {
			sev, ok := severityNamed(fmt.Sprint(i))
			if !ok {
				return fmt.Sprintf("[%v]", i)
			}
			tag := "[" + sev.String() + "]"
			if noColor {
				return tag
			}
			return fmt.Sprintf("\x1b[%dm%s\x1b[0m", consoleColors[sev], tag)
		},
	}
	l := zerolog.New(cw)
	return &l
}

// mirror writes r to the console logger.
func mirror(l *zerolog.Logger, r Record) {
	ev := l.Log().
		Str(zerolog.LevelFieldName, r.Severity.String()).
		Time(zerolog.TimestampFieldName, r.Time).
		Str("source", r.Source)
	if r.Err != nil {
		ev = ev.Err(r.Err)
	}
	ev.Msg(r.Message)
}
