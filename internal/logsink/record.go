package logsink

import (
	"fmt"
	"time"
)

// Severity of a Record, most severe first.
type Severity int

const (
	Critical Severity = iota
	Error
	Warning
	Info
	Debug
	Verbose
)

var severityNames = [...]string{"Critical", "Error", "Warning", "Info", "Debug", "Verbose"}

func (s Severity) String() string {
	if s < Critical || s > Verbose {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// TimeLayout is the record timestamp layout: ISO-8601, UTC, second precision.
const TimeLayout = "2006-01-02T15:04:05Z"

// Record is one log entry.
type Record struct {
	Time     time.Time
	Severity Severity
	Source   string
	Message  string
	Err      error
}

// Line renders r as "<timestamp> [<severity>] [<source>] <message-or-fault>".
// When Err is set it takes the place of Message, keeping Message as context.
func (r Record) Line() string {
	return fmt.Sprintf("%s [%s] [%s] %s", r.Time.UTC().Format(TimeLayout), r.Severity, r.Source, r.text())
}

func (r Record) text() string {
	switch {
	case r.Err == nil:
		return r.Message
	case r.Message == "":
		return r.Err.Error()
	default:
		return r.Message + ": " + r.Err.Error()
	}
}
