package bot

import (
	"fmt"
	"regexp"
	"strings"
)

// ReactionKind tags a Reaction.
type ReactionKind int

const (
	// Emoji is a unicode emoji.
	Emoji ReactionKind = iota
	// Emote is a custom guild emote.
	Emote
)

// Reaction is either a custom Emote (Name, ID, Animated) or a unicode Emoji (Unicode).
type Reaction struct {
	Kind     ReactionKind
	Unicode  string
	Name     string
	ID       string
	Animated bool
}

var emotePattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]{1,32}):(\d{1,20})>$`)

// ParseReaction reads a custom emote in message form (<:name:id> or
// <a:name:id>); anything else is taken as a unicode emoji.
func ParseReaction(s string) Reaction {
	s = strings.TrimSpace(s)
	if m := emotePattern.FindStringSubmatch(s); m != nil {
		return Reaction{Kind: Emote, Animated: m[1] == "a", Name: m[2], ID: m[3]}
	}
	return Reaction{Kind: Emoji, Unicode: s}
}

// NewEmoji returns an emoji reaction.
func NewEmoji(unicode string) Reaction {
	return Reaction{Kind: Emoji, Unicode: unicode}
}

// APIName is the identifier the reaction endpoints expect: name:id for emotes,
// the emoji itself otherwise.
func (r Reaction) APIName() string {
	if r.Kind == Emote {
		return r.Name + ":" + r.ID
	}
	return r.Unicode
}

// String renders the reaction as it appears in message text.
func (r Reaction) String() string {
	if r.Kind != Emote {
		return r.Unicode
	}
	prefix := ""
	if r.Animated {
		prefix = "a"
	}
	return fmt.Sprintf("<%s:%s:%s>", prefix, r.Name, r.ID)
}
