package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/pkg/cmd"
)

const whoKnowsReply = "```ANSI\n\x1b[0;31mDid you mean: \x1b[4;34m/whoknows```"

type WhoKnowsCommand struct{}

func (c *WhoKnowsCommand) Name() string        { return "whoknows" }
func (c *WhoKnowsCommand) Description() string { return "Did you mean /whoknows?" }
func (c *WhoKnowsCommand) Aliases() []string   { return []string{"wk"} }
func (c *WhoKnowsCommand) Usage() string       { return "whoknows" }
func (c *WhoKnowsCommand) Category() string    { return "🎞️ Media" }

func (c *WhoKnowsCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	return whoKnowsReply, nil
}

// EggCommand posts the egg picture.
type EggCommand struct {
	Path string
}

func (c *EggCommand) Name() string        { return "egg" }
func (c *EggCommand) Description() string { return `egg (engl. "Ei")` }
func (c *EggCommand) Aliases() []string   { return []string{"ei", "eckeaberaufhessisch"} }
func (c *EggCommand) Usage() string       { return "egg" }
func (c *EggCommand) Category() string    { return "🎞️ Media" }

func (c *EggCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	if c.Path == "" {
		return "", errors.New("egg image path is not configured")
	}
	if err := mc.Platform.SendFile(ctx, mc.Event.ChannelID, c.Path, ""); err != nil {
		return "", fmt.Errorf("send egg: %w", err)
	}
	return "", nil
}
