// Package owner holds commands restricted to the bot owners.
package owner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/pkg/cmd"
)

// Done is added to the invoking message after a successful evaluation.
var Done = bot.NewEmoji("✅")

type EvalCommand struct{}

func (c *EvalCommand) Name() string        { return "eval" }
func (c *EvalCommand) Description() string { return "Evaluate JavaScript" }
func (c *EvalCommand) Aliases() []string   { return nil }
func (c *EvalCommand) Usage() string       { return "eval <code>" }
func (c *EvalCommand) Category() string    { return "🛠️ Maintenance" }

// Run evaluates the whole argument text with the triggering event bound as
// `event`. The result is sent as a reply to the invoking message.
func (c *EvalCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	src := TrimSource(inv.Raw)
	if src == "" {
		return "", cmd.Userf("The input text has too few parameters.")
	}

	out, err := Evaluate(ctx, src, map[string]any{"event": mc.Event})
	if err != nil {
		return "", err
	}

	ev := mc.Event
	if out != "" {
		if err := mc.Platform.SendReply(ctx, ev.ChannelID, out, ev.Ref()); err != nil {
			return "", fmt.Errorf("send result: %w", err)
		}
	}
	if err := mc.Platform.AddReaction(ctx, ev.ChannelID, ev.MessageID, Done); err != nil {
		return "", fmt.Errorf("add done reaction: %w", err)
	}
	return "", nil
}

// TrimSource strips the code-block backticks and quotes around the source.
func TrimSource(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`'\""))
}

// Evaluate runs src in a fresh VM with globals set. The VM is interrupted
// when ctx is done. Arrays render one element per line; undefined and null
// render as "".
func Evaluate(ctx context.Context, src string, globals map[string]any) (string, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
	for name, v := range globals {
		if err := vm.Set(name, v); err != nil {
			return "", fmt.Errorf("bind %s: %w", name, err)
		}
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	v, err := vm.RunString(src)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", fmt.Errorf("evaluation interrupted: %w", context.Cause(ctx))
		}
		return "", err
	}
	return render(vm, v), nil
}

func render(vm *goja.Runtime, v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() == "Array" {
		var items []any
		if err := vm.ExportTo(v, &items); err == nil {
			lines := make([]string, len(items))
			for i, item := range items {
				lines[i] = fmt.Sprint(item)
			}
			return strings.Join(lines, "\n")
		}
	}
	return v.String()
}
