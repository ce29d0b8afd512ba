package middleware

import (
	"context"
	"time"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/pkg/cmd"
)

// releaseTimeout bounds the marker removal, which runs detached from the
// invocation context.
const releaseTimeout = 10 * time.Second

// WithExecutionGuard brackets a command with a working marker: the marker
// reaction is added and an Info record written before Run, and the marker is
// removed after Run on every exit path, panics included. Marker failures are
// logged and never abort the command.
func WithExecutionGuard(marker bot.Reaction, sink *logsink.Sink) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (string, error) {
			mc, ok := command.FromInvocation(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			ev := mc.Event
			p := mc.Platform

			if err := p.AddReaction(ctx, ev.ChannelID, ev.MessageID, marker); err != nil {
				sink.Log(logsink.Warning, c.Name(), "add marker reaction: %v", err)
			}
			sink.Log(logsink.Info, c.Name(), "%s used a command in #%s", ev.AuthorName, channelLabel(ev))

			defer func() {
				rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
				defer cancel()
				if err := p.RemoveReaction(rctx, ev.ChannelID, ev.MessageID, marker, p.SelfID()); err != nil {
					sink.Log(logsink.Warning, c.Name(), "remove marker reaction: %v", err)
				}
			}()

			return c.Run(ctx, inv)
		})
	}
}

func channelLabel(ev bot.InboundEvent) string {
	if ev.ChannelName != "" {
		return ev.ChannelName
	}
	return ev.ChannelID
}
