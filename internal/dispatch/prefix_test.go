package dispatch

import (
	"testing"

	"github.com/keshon/ceres/internal/bot"
)

func TestResolver(t *testing.T) {
	r := Resolver{Prefix: "!", SelfID: "900"}
	tests := []struct {
		text    string
		want    string
		ok      bool
		mention bool
	}{
		{"!echo hello", "echo hello", true, false},
		{"!  echo hello  ", "echo hello", true, false},
		{"<@900> echo hello", "echo hello", true, true},
		{"<@!900> echo hello", "echo hello", true, true},
		{"<@901> echo hello", "", false, false},
		{"<@900", "", false, false},
		{"hello !echo", "", false, false},
		{"!", "", false, false},
		{"!   ", "", false, false},
		{"!!", "", false, false},
		{"<@900>", "", false, false},
		{"", "", false, false},
		// Every occurrence of the prefix is removed, arguments included.
		{"!echo wow!", "echo wow", true, false},
		{"!echo a!b", "echo ab", true, false},
		{"<@900> !echo hi", "echo hi", true, true},
	}
	for _, tt := range tests {
		m, ok := r.Resolve(tt.text)
		if ok != tt.ok || m.Text != tt.want || m.Mention != tt.mention {
			t.Errorf("Resolve(%q) = %+v, %v; want %q, %v (mention %v)", tt.text, m, ok, tt.want, tt.ok, tt.mention)
		}
	}
}

func TestResolverMultiCharPrefix(t *testing.T) {
	r := Resolver{Prefix: "c!", SelfID: "900"}
	m, ok := r.Resolve("c!echo hi")
	if !ok || m.Text != "echo hi" || m.Offset != 2 {
		t.Errorf("Resolve = %+v, %v", m, ok)
	}
	if m, ok := r.Resolve("<@900> echo"); !ok || m.Offset != len("<@900>") {
		t.Errorf("mention Resolve = %+v, %v", m, ok)
	}
}

func TestFilter(t *testing.T) {
	f := Filter{SelfID: "900", TriggerAuthorID: "526", TriggerText: "Reminder from"}
	reminder := []bot.Embed{{Description: "Reminder from @alice: water"}}
	tests := []struct {
		name string
		ev   bot.InboundEvent
		want Decision
	}{
		{"self", bot.InboundEvent{AuthorID: "900", Content: "!echo"}, Ignore},
		{"system", bot.InboundEvent{AuthorID: "1", System: true}, Ignore},
		{"user", bot.InboundEvent{AuthorID: "1", Content: "!echo"}, Candidate},
		{"other bot", bot.InboundEvent{AuthorID: "2", AuthorBot: true, Content: "!echo"}, Candidate},
		{"reminder", bot.InboundEvent{AuthorID: "526", Embeds: reminder}, SpecialReact},
		{"reminder from someone else", bot.InboundEvent{AuthorID: "527", Embeds: reminder}, Candidate},
		{"trigger author without embed", bot.InboundEvent{AuthorID: "526", Content: "Reminder from"}, Candidate},
		{"second embed only", bot.InboundEvent{AuthorID: "526", Embeds: []bot.Embed{{}, reminder[0]}}, Candidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Decide(tt.ev); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}
