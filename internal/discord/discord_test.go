package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/logsink"
)

func TestEventFromMessage(t *testing.T) {
	state := discordgo.NewState()
	if err := state.GuildAdd(&discordgo.Guild{ID: "g1"}); err != nil {
		t.Fatal(err)
	}
	if err := state.ChannelAdd(&discordgo.Channel{ID: "c1", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText}); err != nil {
		t.Fatal(err)
	}

	m := &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "!react 🙂",
		Type:      discordgo.MessageTypeReply,
		Author:    &discordgo.User{ID: "u1", Username: "alice", Discriminator: "0"},
		MessageReference: &discordgo.MessageReference{
			MessageID: "m0",
			ChannelID: "c1",
		},
		Embeds: []*discordgo.MessageEmbed{nil, {Title: "t", Description: "Reminder from bob"}},
	}
	ev := eventFromMessage(state, m)

	want := bot.InboundEvent{
		MessageID:   "m1",
		AuthorID:    "u1",
		AuthorName:  "alice",
		Content:     "!react 🙂",
		ChannelID:   "c1",
		ChannelName: "general",
		GuildID:     "g1",
		ReplyToID:   "m0",
		Embeds:      []bot.Embed{{Title: "t", Description: "Reminder from bob"}},
	}
	if !reflect.DeepEqual(ev, want) {
		t.Errorf("event = %+v\nwant    %+v", ev, want)
	}
}

func TestEventFromSystemMessage(t *testing.T) {
	tests := []struct {
		typ  discordgo.MessageType
		want bool
	}{
		{discordgo.MessageTypeDefault, false},
		{discordgo.MessageTypeReply, false},
		{discordgo.MessageTypeGuildMemberJoin, true},
		{discordgo.MessageTypeChannelPinnedMessage, true},
	}
	for _, tt := range tests {
		ev := eventFromMessage(nil, &discordgo.Message{Type: tt.typ, Author: &discordgo.User{ID: "u1", Username: "bob", Discriminator: "1234"}})
		if ev.System != tt.want {
			t.Errorf("type %d: System = %v, want %v", tt.typ, ev.System, tt.want)
		}
		if ev.AuthorName != "bob#1234" {
			t.Errorf("AuthorName = %q", ev.AuthorName)
		}
	}
}

func TestRestStatus(t *testing.T) {
	rest := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}}
	if got := restStatus(fmt.Errorf("send: %w", rest)); got != http.StatusBadGateway {
		t.Errorf("restStatus = %d", got)
	}
	if got := restStatus(errors.New("plain")); got != 0 {
		t.Errorf("restStatus(plain) = %d", got)
	}
	if got := restStatus(&discordgo.RESTError{}); got != 0 {
		t.Errorf("restStatus(no response) = %d", got)
	}

	limited := &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{
		TooManyRequests: &discordgo.TooManyRequests{RetryAfter: 1500 * time.Millisecond},
		URL:             "https://discord.com/api/v9/channels/c1/messages",
	}}
	if got := restStatus(fmt.Errorf("send: %w", limited)); got != http.StatusTooManyRequests {
		t.Errorf("restStatus(rate limit) = %d", got)
	}
	if got := restRetryAfter(limited); got != 1500*time.Millisecond {
		t.Errorf("restRetryAfter = %v", got)
	}
	if got := restRetryAfter(&discordgo.RateLimitError{}); got != 0 {
		t.Errorf("restRetryAfter(empty) = %v", got)
	}
	if got := restRetryAfter(rest); got != 0 {
		t.Errorf("restRetryAfter(REST error) = %v", got)
	}
}

func TestNewBotLeavesRetriesToCall(t *testing.T) {
	cfg := config.Default()
	cfg.DiscordToken = "token"
	b, err := NewBot(cfg, newSink(t))
	if err != nil {
		t.Fatal(err)
	}
	if b.dg.MaxRestRetries != 0 || b.dg.ShouldRetryOnRateLimit {
		t.Errorf("MaxRestRetries = %d, ShouldRetryOnRateLimit = %v", b.dg.MaxRestRetries, b.dg.ShouldRetryOnRateLimit)
	}
	if b.retry.RetryAfter == nil || b.retry.Status == nil {
		t.Error("retry config is missing the discordgo error readers")
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Errorf("short = %q", got)
	}

	long := strings.Repeat("a", 25)
	got := splitMessage(long, 10)
	if len(got) != 3 || got[0] != strings.Repeat("a", 10) || got[2] != "aaaaa" {
		t.Errorf("long = %q", got)
	}

	lines := "1234567\n1234567\n12"
	got = splitMessage(lines, 10)
	if len(got) != 2 || got[0] != "1234567\n" || got[1] != "1234567\n12" {
		t.Errorf("lines = %q", got)
	}

	runes := strings.Repeat("ä", 15)
	for _, chunk := range splitMessage(runes, 10) {
		if n := len([]rune(chunk)); n > 10 {
			t.Errorf("chunk has %d runes", n)
		}
	}
}

func TestLibraryLevel(t *testing.T) {
	tests := map[int]logsink.Severity{
		discordgo.LogError:         logsink.Error,
		discordgo.LogWarning:       logsink.Warning,
		discordgo.LogInformational: logsink.Info,
		discordgo.LogDebug:         logsink.Debug,
	}
	for in, want := range tests {
		if got := libraryLevel(in); got != want {
			t.Errorf("libraryLevel(%d) = %v, want %v", in, got, want)
		}
	}
}

func newSink(t *testing.T) *logsink.Sink {
	t.Helper()
	s, err := logsink.New(filepath.Join(t.TempDir(), "ceres.log"), logsink.WithConsole(nil, true))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPresenceRefresh(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "front.txt")
	if err := os.WriteFile(file, []byte("\n  Emmi fronting  \nsecond\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got []string
	set := func(s string) error { got = append(got, s); return nil }

	p := NewPresence(set, "fallback", file, newSink(t))
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	p = NewPresence(set, "fallback", "", newSink(t))
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	p = NewPresence(set, "", "", newSink(t))
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "|") != "Emmi fronting|fallback" {
		t.Errorf("statuses = %q", got)
	}

	p = NewPresence(set, "x", filepath.Join(dir, "missing.txt"), newSink(t))
	if err := p.Refresh(context.Background()); err == nil {
		t.Error("expected an error for a missing status file")
	}

	p = NewPresence(func(string) error { return errors.New("gateway closed") }, "x", "", newSink(t))
	if err := p.Refresh(context.Background()); err == nil || !strings.Contains(err.Error(), "gateway closed") {
		t.Errorf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewPresence(set, "x", "", newSink(t)).Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestPresenceScheduleRejectsBadSpec(t *testing.T) {
	p := NewPresence(func(string) error { return nil }, "x", "", newSink(t))
	if err := p.Schedule(context.Background(), "not a cron spec"); err == nil {
		t.Error("expected an error")
	}
	if err := p.Schedule(context.Background(), ""); err != nil {
		t.Errorf("empty spec: %v", err)
	}
}
