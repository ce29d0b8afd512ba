package cmd

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type stubCommand struct {
	name    string
	aliases []string
	usage   string
	run     func(ctx context.Context, inv *Invocation) (string, error)
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Aliases() []string   { return s.aliases }
func (s *stubCommand) Usage() string       { return s.usage }
func (s *stubCommand) Run(ctx context.Context, inv *Invocation) (string, error) {
	if s.run != nil {
		return s.run(ctx, inv)
	}
	return s.name, nil
}

func TestRegistryLookup(t *testing.T) {
	echo := &stubCommand{name: "echo", aliases: []string{"say"}}
	react := &stubCommand{name: "react"}
	r, err := NewRegistry(echo, react)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		token string
		want  Command
	}{
		{"echo", echo},
		{"say", echo},
		{"SAY", echo},
		{"Echo", echo},
		{"react", react},
		{"unknownthing", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got, ok := r.Lookup(tt.token)
		if tt.want == nil {
			if ok {
				t.Errorf("Lookup(%q) = %v, want no match", tt.token, got.Name())
			}
			continue
		}
		if !ok || got != tt.want {
			t.Errorf("Lookup(%q) = %v, %v; want %s", tt.token, got, ok, tt.want.Name())
		}
	}

	all := r.GetAll()
	if len(all) != 2 || all[0].Name() != "echo" || all[1].Name() != "react" {
		t.Errorf("GetAll returned %v", all)
	}
}

func TestRegistryConflicts(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
	}{
		{"duplicate name", []Command{&stubCommand{name: "echo"}, &stubCommand{name: "echo"}}},
		{"alias shadows name", []Command{&stubCommand{name: "echo"}, &stubCommand{name: "say", aliases: []string{"Echo"}}}},
		{"name shadows alias", []Command{&stubCommand{name: "echo", aliases: []string{"say"}}, &stubCommand{name: "say"}}},
		{"alias shared", []Command{&stubCommand{name: "a", aliases: []string{"x"}}, &stubCommand{name: "b", aliases: []string{"x"}}}},
		{"self duplicate", []Command{&stubCommand{name: "a", aliases: []string{"A"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.cmds...)
			if !errors.Is(err, ErrConflict) {
				t.Fatalf("NewRegistry error = %v, want ErrConflict", err)
			}
		})
	}

	if _, err := NewRegistry(&stubCommand{name: "two words"}); err == nil {
		t.Error("expected error for name containing whitespace")
	}
}

func TestRegistryRejectedCommandLeavesNoTrace(t *testing.T) {
	r, _ := NewRegistry(&stubCommand{name: "echo"})
	if err := r.Register(&stubCommand{name: "fresh", aliases: []string{"echo"}}); err == nil {
		t.Fatal("expected conflict")
	}
	if _, ok := r.Lookup("fresh"); ok {
		t.Error("conflicting command was partially registered")
	}
}

func TestRegistryLooksThroughMiddleware(t *testing.T) {
	inner := &stubCommand{name: "echo", aliases: []string{"say"}, usage: "!echo <text>"}
	wrapped := Wrap(inner, func(ctx context.Context, inv *Invocation) (string, error) {
		return "wrapped", nil
	})
	r, err := NewRegistry(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := r.Lookup("say")
	if !ok {
		t.Fatal("alias of wrapped command not registered")
	}
	if Root(c) != inner {
		t.Error("Root did not reach inner command")
	}
	if UsageOf(c) != "!echo <text>" {
		t.Errorf("UsageOf = %q", UsageOf(c))
	}
	reply, _ := c.Run(context.Background(), &Invocation{})
	if reply != "wrapped" {
		t.Errorf("Run = %q, want wrapped", reply)
	}
}

func TestApplyOrder(t *testing.T) {
	var trace []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) (string, error) {
				trace = append(trace, tag+">")
				defer func() { trace = append(trace, "<"+tag) }()
				return c.Run(ctx, inv)
			})
		}
	}
	c := Apply(&stubCommand{name: "x"}, mw("outer"), mw("inner"))
	if _, err := c.Run(context.Background(), &Invocation{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"outer>", "inner>", "<inner", "<outer"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in, name, args string
	}{
		{"echo hello", "echo", "hello"},
		{"echo   hello  world ", "echo", "hello  world"},
		{"unknownthing", "unknownthing", ""},
		{"react\t🙂", "react", "🙂"},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, args := SplitCommand(tt.in)
		if name != tt.name || args != tt.args {
			t.Errorf("SplitCommand(%q) = %q, %q; want %q, %q", tt.in, name, args, tt.name, tt.args)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"hello", []string{"hello"}, false},
		{"hello 123 456", []string{"hello", "123", "456"}, false},
		{`"hello world" 123`, []string{"hello world", "123"}, false},
		{`"" x`, []string{"", "x"}, false},
		{`"say \"hi\""`, []string{`say "hi"`}, false},
		{`"unterminated`, nil, true},
	}
	for _, tt := range tests {
		got, err := SplitArgs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitArgs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInvocationHelpers(t *testing.T) {
	inv := &Invocation{Args: []string{"hello", "42", "nope"}}

	if got := inv.Arg(0, ""); got != "hello" {
		t.Errorf("Arg(0) = %q", got)
	}
	if got := inv.Arg(5, "def"); got != "def" {
		t.Errorf("Arg(5) = %q", got)
	}
	if v, err := inv.Uint64(1, 0); err != nil || v != 42 {
		t.Errorf("Uint64(1) = %d, %v", v, err)
	}
	if v, err := inv.Uint64(7, 9); err != nil || v != 9 {
		t.Errorf("Uint64(7) = %d, %v", v, err)
	}
	if _, err := inv.Uint64(2, 0); Classify("", err).Kind != UserFailure {
		t.Errorf("malformed number should be a user error, got %v", err)
	}
	if err := inv.Expect(1, 4); err != nil {
		t.Errorf("Expect(1,4) = %v", err)
	}
	if err := inv.Expect(4, -1); Classify("", err).Reply != "The input text has too few parameters." {
		t.Errorf("Expect(4,-1) = %v", err)
	}
	if err := inv.Expect(0, 2); Classify("", err).Reply != "The input text has too many parameters." {
		t.Errorf("Expect(0,2) = %v", err)
	}
}

func TestInvocationSplitsRawOnFirstUse(t *testing.T) {
	inv := &Invocation{Raw: `"hello world" 42`}
	if got := inv.Arg(0, ""); got != "hello world" {
		t.Errorf("Arg(0) = %q", got)
	}
	if v, err := inv.Uint64(1, 0); err != nil || v != 42 {
		t.Errorf("Uint64(1) = %d, %v", v, err)
	}

	bad := &Invocation{Raw: `'"'.length`}
	if bad.Raw != `'"'.length` || bad.Args != nil {
		t.Fatalf("invocation split before any helper ran: %q", bad.Args)
	}
	if got := bad.Arg(0, "def"); got != "def" {
		t.Errorf("Arg on unsplittable text = %q, want the default", got)
	}
	if err := bad.Expect(0, -1); Classify("", err).Reply != "A quoted parameter is incomplete." {
		t.Errorf("Expect = %v", err)
	}
	if _, err := bad.Uint64(0, 0); Classify("", err).Kind != UserFailure {
		t.Errorf("Uint64 = %v", err)
	}
}

func TestClassify(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		reply string
		err   error
		kind  OutcomeKind
		text  string
	}{
		{"success with reply", "hello", nil, Success, "hello"},
		{"silent success", "", nil, Success, ""},
		{"user error", "ignored", Userf("Invalid Guild ID"), UserFailure, "Invalid Guild ID"},
		{"wrapped user error", "", fmt.Errorf("react: %w", Userf("bad id")), UserFailure, "bad id"},
		{"fault", "", boom, Fault, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Classify(tt.reply, tt.err)
			if o.Kind != tt.kind || o.Reply != tt.text {
				t.Errorf("Classify = %v %q, want %v %q", o.Kind, o.Reply, tt.kind, tt.text)
			}
		})
	}
}
