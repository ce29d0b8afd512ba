package bot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Platform lookups for unknown or inaccessible ids.
var ErrNotFound = errors.New("not found")

// Platform is the outbound surface of the chat client. Every call may block
// on network I/O and must honour ctx.
type Platform interface {
	// SelfID is the bot's own user id.
	SelfID() string

	SendMessage(ctx context.Context, channelID, text string) error
	SendReply(ctx context.Context, channelID, text string, ref MessageRef) error
	SendFile(ctx context.Context, channelID, path, caption string) error

	AddReaction(ctx context.Context, channelID, messageID string, r Reaction) error
	RemoveReaction(ctx context.Context, channelID, messageID string, r Reaction, userID string) error

	GetMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	Channel(ctx context.Context, channelID string) (*Channel, error)
	Guild(ctx context.Context, guildID string) (*Guild, error)
}
