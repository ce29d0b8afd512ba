package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
	"testing"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/bot/bottest"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/internal/storage"
	"github.com/keshon/ceres/pkg/cmd"
)

func newSink(t *testing.T) *logsink.Sink {
	t.Helper()
	s, err := logsink.New(filepath.Join(t.TempDir(), "ceres.log"), logsink.WithConsole(nil, true))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func names(reg *cmd.Registry) []string {
	var out []string
	for _, c := range reg.GetAll() {
		out = append(out, c.Name())
	}
	sort.Strings(out)
	return out
}

func TestRegistry(t *testing.T) {
	reg, err := Registry(Deps{Config: config.Default(), Log: newSink(t)})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"echo", "egg", "eval", "folder", "help", "react", "updatefront", "whoknows"}
	if got := names(reg); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}

	for alias, name := range map[string]string{
		"say": "echo", "ei": "egg", "eckeaberaufhessisch": "egg", "wk": "whoknows",
		"f": "folder", "u": "updatefront", "uf": "updatefront", "updatef": "updatefront",
		"h": "help", "commands": "help",
	} {
		c, ok := reg.Lookup(alias)
		if !ok || c.Name() != name {
			t.Errorf("Lookup(%q) = %v, %v; want %s", alias, c, ok, name)
		}
	}
}

func TestRegistryWithHistory(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	reg, err := Registry(Deps{Config: config.Default(), Log: newSink(t), History: store})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("hist"); !ok {
		t.Fatal("history command missing")
	}

	c, _ := reg.Lookup("whoknows")
	p := bottest.New("900")
	inv := &cmd.Invocation{ID: "inv-1", Name: "wk", Data: &command.MessageContext{
		Platform: p,
		Event:    bot.InboundEvent{MessageID: "m1", AuthorID: "u1", ChannelID: "c1", GuildID: "g1"},
	}}
	if _, err := c.Run(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	got, err := store.FetchCommandHistory("g1")
	if err != nil || len(got) != 1 || got[0].Command != "whoknows" || got[0].InvocationID != "inv-1" {
		t.Errorf("history = %+v, %v", got, err)
	}
	if p.Count(bottest.OpAddReaction) != 1 || p.Count(bottest.OpRemoveReaction) != 1 {
		t.Errorf("ops = %v, want the marker around the command", p.Ops())
	}
}

func TestCustomMarker(t *testing.T) {
	cfg := config.Default()
	cfg.Marker = "<a:loading:123>"
	reg, err := Registry(Deps{Config: cfg, Log: newSink(t)})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := reg.Lookup("wk")
	p := bottest.New("900")
	c.Run(context.Background(), &cmd.Invocation{Data: &command.MessageContext{Platform: p, Event: bot.InboundEvent{MessageID: "m1", ChannelID: "c1"}}})

	want := bot.Reaction{Kind: bot.Emote, Name: "loading", ID: "123", Animated: true}
	for _, call := range p.Outbound() {
		if call.Reaction != want {
			t.Errorf("marker = %+v, want %+v", call.Reaction, want)
		}
	}
}
