package dispatch

import (
	"strings"

	"github.com/keshon/ceres/internal/bot"
)

// Decision is the EventFilter verdict for one event.
type Decision int

const (
	// Ignore drops the event.
	Ignore Decision = iota
	// SpecialReact answers the reminder trigger; prefix matching still follows.
	SpecialReact
	// Candidate goes on to prefix matching.
	Candidate
)

func (d Decision) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case SpecialReact:
		return "special-react"
	case Candidate:
		return "candidate"
	}
	return "unknown"
}

// Filter decides what to do with an inbound event.
type Filter struct {
	SelfID string
	// TriggerAuthorID and TriggerText select the special reaction: an embed
	// from that author whose first description contains the text.
	TriggerAuthorID string
	TriggerText     string
}

// Decide never fails and has no side effects; the caller acts on SpecialReact.
func (f Filter) Decide(ev bot.InboundEvent) Decision {
	if ev.System || ev.AuthorID == f.SelfID {
		return Ignore
	}
	if f.TriggerText != "" && ev.AuthorID == f.TriggerAuthorID &&
		strings.Contains(ev.FirstEmbedDescription(), f.TriggerText) {
		return SpecialReact
	}
	return Candidate
}
