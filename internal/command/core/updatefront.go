package core

import (
	"context"
	"time"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/pkg/cmd"
)

const refreshTimeout = 30 * time.Second

// StatusUpdater refreshes the bot's presence.
type StatusUpdater interface {
	Refresh(ctx context.Context) error
}

type UpdateFrontCommand struct {
	Status StatusUpdater
}

func (c *UpdateFrontCommand) Name() string        { return "updatefront" }
func (c *UpdateFrontCommand) Description() string { return "Updates the fronting status" }
func (c *UpdateFrontCommand) Aliases() []string {
	return []string{"u", "update", "ufront", "uf", "updatef"}
}
func (c *UpdateFrontCommand) Usage() string    { return "updatefront" }
func (c *UpdateFrontCommand) Category() string { return "🛠️ Maintenance" }

// Run starts the refresh and answers without waiting for it.
func (c *UpdateFrontCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	if c.Status == nil {
		return "", cmd.Userf("Status updates are not available.")
	}
	go func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		if err := c.Status.Refresh(rctx); err != nil && mc.Log != nil {
			mc.Log.Log(logsink.Warning, c.Name(), "refresh status: %v", err)
		}
	}()
	return "Front status updated", nil
}
