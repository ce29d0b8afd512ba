package middleware

import (
	"context"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/pkg/cmd"
)

// WithOwnerOnly rejects invocations from anyone isOwner does not accept.
func WithOwnerOnly(isOwner func(userID string) bool) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (string, error) {
			mc, ok := command.FromInvocation(inv)
			if !ok || !isOwner(mc.Event.AuthorID) {
				return "", cmd.Userf("Command can only be run by the owner of the bot.")
			}
			return c.Run(ctx, inv)
		})
	}
}
