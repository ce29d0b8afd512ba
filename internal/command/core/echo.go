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

type EchoCommand struct{}

func (c *EchoCommand) Name() string        { return "echo" }
func (c *EchoCommand) Description() string { return "Repeat a message, optionally elsewhere or as a reply" }
func (c *EchoCommand) Aliases() []string   { return []string{"say"} }
func (c *EchoCommand) Usage() string       { return "echo <message> [channelId] [guildId] [replyToMessageId]" }
func (c *EchoCommand) Category() string    { return "📢 Utilities" }

func (c *EchoCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	if err := inv.Expect(1, 4); err != nil {
		return "", err
	}
	channelID, err := inv.Uint64(1, 0)
	if err != nil {
		return "", err
	}
	guildID, err := inv.Uint64(2, 0)
	if err != nil {
		return "", err
	}
	replyTo, err := inv.Uint64(3, 0)
	if err != nil {
		return "", err
	}

	p := mc.Platform
	ev := mc.Event

	gid := ev.GuildID
	if guildID != 0 {
		gid = strconv.FormatUint(guildID, 10)
	}
	if gid == "" {
		return "", cmd.Userf("Invalid Guild ID")
	}
	guild, err := p.Guild(ctx, gid)
	if errors.Is(err, bot.ErrNotFound) {
		return "", cmd.Userf("Invalid Guild ID")
	}
	if err != nil {
		return "", fmt.Errorf("fetch guild %s: %w", gid, err)
	}

	cid := ev.ChannelID
	if channelID != 0 {
		cid = strconv.FormatUint(channelID, 10)
	}
	ch, err := p.Channel(ctx, cid)
	if errors.Is(err, bot.ErrNotFound) || (err == nil && (ch.GuildID != guild.ID || !ch.Text)) {
		return "", cmd.Userf("Invalid Channel ID")
	}
	if err != nil {
		return "", fmt.Errorf("fetch channel %s: %w", cid, err)
	}

	text := inv.Arg(0, "")
	if replyTo == 0 {
		if err := p.SendMessage(ctx, ch.ID, text); err != nil {
			return "", fmt.Errorf("send message: %w", err)
		}
		return "", nil
	}

	mid := strconv.FormatUint(replyTo, 10)
	if _, err := p.GetMessage(ctx, ch.ID, mid); errors.Is(err, bot.ErrNotFound) {
		return "", cmd.Userf("Invalid Message ID")
	} else if err != nil {
		return "", fmt.Errorf("fetch message %s: %w", mid, err)
	}
	ref := bot.MessageRef{MessageID: mid, ChannelID: ch.ID, GuildID: guild.ID}
	if err := p.SendReply(ctx, ch.ID, text, ref); err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	return "", nil
}
