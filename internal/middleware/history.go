package middleware

import (
	"context"
	"time"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/internal/storage"
	"github.com/keshon/ceres/pkg/cmd"
)

// HistoryStore records command executions.
type HistoryStore interface {
	AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error
}

// WithHistory wraps a command to record its execution in the guild history.
// Direct messages are not recorded.
func WithHistory(store HistoryStore, sink *logsink.Sink) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (string, error) {
			reply, err := c.Run(ctx, inv)

			mc, ok := command.FromInvocation(inv)
			if !ok || mc.Event.GuildID == "" {
				return reply, err
			}
			ev := mc.Event
			rec := storage.CommandHistoryRecord{
				InvocationID: inv.ID,
				ChannelID:    ev.ChannelID,
				ChannelName:  ev.ChannelName,
				UserID:       ev.AuthorID,
				Username:     ev.AuthorName,
				Command:      c.Name(),
				Param:        inv.Raw,
				Outcome:      cmd.Classify(reply, err).Kind.String(),
				Datetime:     time.Now().UTC(),
			}
			if e := store.AppendCommandToHistory(ev.GuildID, rec); e != nil {
				sink.Log(logsink.Warning, c.Name(), "failed to log command %s: %v", c.Name(), e)
			}
			return reply, err
		})
	}
}
