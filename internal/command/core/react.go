package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/pkg/cmd"
)

type ReactCommand struct{}

func (c *ReactCommand) Name() string        { return "react" }
func (c *ReactCommand) Description() string { return "Add a reaction to a message" }
func (c *ReactCommand) Aliases() []string   { return nil }
func (c *ReactCommand) Usage() string       { return "react [emote] [messageId]" }
func (c *ReactCommand) Category() string    { return "📢 Utilities" }

func (c *ReactCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	if err := inv.Expect(1, 2); err != nil {
		return "", err
	}
	p := mc.Platform
	ev := mc.Event

	target := ev.ReplyToID
	if id := inv.Arg(1, ""); id != "" {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return "", reactError(mc.Prefix, "Error: **Something's wrong with the message ID**")
		}
		msg, err := p.GetMessage(ctx, ev.ChannelID, id)
		if errors.Is(err, bot.ErrNotFound) {
			return "", reactError(mc.Prefix, "Error: **Command must be executed in the same channel**")
		}
		if err != nil {
			return "", fmt.Errorf("fetch message %s: %w", id, err)
		}
		target = msg.ID
	} else if target == "" {
		return "", reactError(mc.Prefix, "Error: **No message ID specified and not replied to any message**")
	}

	r := bot.ParseReaction(inv.Arg(0, ""))
	if err := p.AddReaction(ctx, ev.ChannelID, target, r); err != nil {
		return "", fmt.Errorf("add reaction %s: %w", r, err)
	}
	return "", nil
}

func reactError(prefix, msg string) error {
	return cmd.Userf("%s\nUsage `%sreact [emote] [messageId]`\nUsage `%sreact [emote]` when replying to a message. The replied to message will be used as reaction target.", msg, prefix, prefix)
}
