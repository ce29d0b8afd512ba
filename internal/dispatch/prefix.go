package dispatch

import "strings"

// Match is a resolved command prefix.
type Match struct {
	// Text is the command text: name first, then arguments.
	Text string
	// Offset is the length of the matched prefix or mention token.
	Offset int
	// Mention is true when the bot was addressed by mention.
	Mention bool
}

// Resolver matches the configured prefix or a mention of the bot.
type Resolver struct {
	Prefix string
	SelfID string
}

// Resolve checks the string prefix first, then the mention forms <@id> and
// <@!id>. Every occurrence of the prefix is then removed from the remaining
// text, arguments included, and the result trimmed. An empty result is not a
// command.
func (r Resolver) Resolve(text string) (Match, bool) {
	var m Match
	switch {
	case r.Prefix != "" && strings.HasPrefix(text, r.Prefix):
		m.Offset = len(r.Prefix)
		m.Text = text
	default:
		n := mentionLength(text, r.SelfID)
		if n == 0 {
			return Match{}, false
		}
		m.Offset, m.Mention = n, true
		m.Text = text[n:]
	}

	if r.Prefix != "" {
		m.Text = strings.ReplaceAll(m.Text, r.Prefix, "")
	}
	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" {
		return Match{}, false
	}
	return m, true
}

// mentionLength returns the length of a leading mention of selfID, or 0.
func mentionLength(text, selfID string) int {
	if selfID == "" || !strings.HasPrefix(text, "<@") {
		return 0
	}
	end := strings.IndexByte(text, '>')
	if end < 0 {
		return 0
	}
	id := strings.TrimPrefix(text[2:end], "!")
	if id != selfID {
		return 0
	}
	return end + 1
}
