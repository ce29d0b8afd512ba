package command

import (
	"context"
	"fmt"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/pkg/cmd"
)

// MessageContext is what the runtime hands a prefix command.
type MessageContext struct {
	Platform bot.Platform
	Event    bot.InboundEvent
	Registry *cmd.Registry
	Log      *logsink.Sink
	Prefix   string
}

// MessageCommand is what individual prefix commands implement.
type MessageCommand interface {
	Name() string
	Description() string
	Aliases() []string
	Usage() string
	Category() string
	Run(ctx context.Context, mc *MessageContext, inv *cmd.Invocation) (string, error)
}

// Meta is exposed by the adapter so help and middleware can read the
// category without depending on the concrete command type.
type Meta interface {
	Category() string
}

// MessageAdapter adapts a MessageCommand to cmd.Command so it can live in the
// registry. It also implements cmd.Aliaser, cmd.Usager and Meta by delegating
// to the inner command.
type MessageAdapter struct {
	Cmd MessageCommand
}

func (a *MessageAdapter) Name() string        { return a.Cmd.Name() }
func (a *MessageAdapter) Description() string { return a.Cmd.Description() }
func (a *MessageAdapter) Aliases() []string   { return a.Cmd.Aliases() }
func (a *MessageAdapter) Usage() string       { return a.Cmd.Usage() }
func (a *MessageAdapter) Category() string    { return a.Cmd.Category() }

func (a *MessageAdapter) Run(ctx context.Context, inv *cmd.Invocation) (string, error) {
	mc, ok := FromInvocation(inv)
	if !ok {
		return "", fmt.Errorf("command %s: unsupported context %T", a.Cmd.Name(), inv.Data)
	}
	return a.Cmd.Run(ctx, mc, inv)
}

// Adapt wraps c for the registry and applies middlewares, first outermost.
func Adapt(c MessageCommand, mws ...cmd.Middleware) cmd.Command {
	return cmd.Apply(&MessageAdapter{Cmd: c}, mws...)
}

// FromInvocation extracts the message context set by the dispatcher.
func FromInvocation(inv *cmd.Invocation) (*MessageContext, bool) {
	mc, ok := inv.Data.(*MessageContext)
	return mc, ok && mc != nil
}

// CategoryOf returns the category of a registered command, or "".
func CategoryOf(c cmd.Command) string {
	if m, ok := cmd.Root(c).(Meta); ok {
		return m.Category()
	}
	return ""
}
