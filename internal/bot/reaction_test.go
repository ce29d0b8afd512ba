package bot

import "testing"

func TestParseReaction(t *testing.T) {
	tests := []struct {
		in      string
		want    Reaction
		apiName string
	}{
		{"🙂", Reaction{Kind: Emoji, Unicode: "🙂"}, "🙂"},
		{" ⏳ ", Reaction{Kind: Emoji, Unicode: "⏳"}, "⏳"},
		{"<:pepe:123456789012345678>", Reaction{Kind: Emote, Name: "pepe", ID: "123456789012345678"}, "pepe:123456789012345678"},
		{"<a:DinkDonk:1025546103447355464>", Reaction{Kind: Emote, Name: "DinkDonk", ID: "1025546103447355464", Animated: true}, "DinkDonk:1025546103447355464"},
		{"<:broken:abc>", Reaction{Kind: Emoji, Unicode: "<:broken:abc>"}, "<:broken:abc>"},
	}
	for _, tt := range tests {
		got := ParseReaction(tt.in)
		if got != tt.want {
			t.Errorf("ParseReaction(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.APIName() != tt.apiName {
			t.Errorf("APIName(%q) = %q, want %q", tt.in, got.APIName(), tt.apiName)
		}
	}
}

func TestReactionString(t *testing.T) {
	for _, s := range []string{"🙂", "<:pepe:1>", "<a:DinkDonk:1025546103447355464>"} {
		if got := ParseReaction(s).String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestFirstEmbedDescription(t *testing.T) {
	if got := (InboundEvent{}).FirstEmbedDescription(); got != "" {
		t.Errorf("no embeds: got %q", got)
	}
	ev := InboundEvent{Embeds: []Embed{{Description: "Reminder from Bob"}, {Description: "other"}}}
	if got := ev.FirstEmbedDescription(); got != "Reminder from Bob" {
		t.Errorf("got %q", got)
	}
}
