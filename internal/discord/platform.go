package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/pkg/retrylimit"
)

// maxMessageLength is Discord's limit for message content.
const maxMessageLength = 2000

var _ bot.Platform = (*Bot)(nil)

// call runs one REST request under the platform timeout, paced by the
// adaptive limiter and retried on 429/5xx. 403 and 404 become bot.ErrNotFound.
func (b *Bot) call(ctx context.Context, fn func(opt discordgo.RequestOption) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.PlatformTimeout)
	defer cancel()

	err := retrylimit.Do(ctx, b.limiter, b.retry, func(ctx context.Context) error {
		return fn(discordgo.WithContext(ctx))
	})
	switch restStatus(err) {
	case http.StatusNotFound, http.StatusForbidden:
		return fmt.Errorf("%w: %v", bot.ErrNotFound, err)
	}
	return err
}

// restStatus returns the HTTP status of a discordgo REST error, or 0. A
// rate limit error, returned instead of sleeping in the library, counts as 429.
func restStatus(err error) int {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Response != nil {
		return re.Response.StatusCode
	}
	return 0
}

// restRetryAfter returns the pause Discord asked for with a rate limit error.
func restRetryAfter(err error) time.Duration {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) && rl.RateLimit != nil && rl.TooManyRequests != nil {
		return rl.RetryAfter
	}
	return 0
}

func (b *Bot) SelfID() string {
	if b.dg.State == nil || b.dg.State.User == nil {
		return ""
	}
	return b.dg.State.User.ID
}

// SendMessage sends text, split into several messages when it is too long.
func (b *Bot) SendMessage(ctx context.Context, channelID, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		err := b.call(ctx, func(opt discordgo.RequestOption) error {
			_, err := b.dg.ChannelMessageSend(channelID, chunk, opt)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SendReply sends text referencing ref. Only the first chunk is the reply.
func (b *Bot) SendReply(ctx context.Context, channelID, text string, ref bot.MessageRef) error {
	for i, chunk := range splitMessage(text, maxMessageLength) {
		msg := &discordgo.MessageSend{Content: chunk}
		if i == 0 {
			msg.Reference = &discordgo.MessageReference{
				MessageID: ref.MessageID,
				ChannelID: ref.ChannelID,
				GuildID:   ref.GuildID,
			}
		}
		err := b.call(ctx, func(opt discordgo.RequestOption) error {
			_, err := b.dg.ChannelMessageSendComplex(channelID, msg, opt)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SendFile uploads the file at path with an optional caption.
func (b *Bot) SendFile(ctx context.Context, channelID, path, caption string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return b.call(ctx, func(opt discordgo.RequestOption) error {
		_, err := b.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: caption,
			Files:   []*discordgo.File{{Name: name, Reader: bytes.NewReader(data)}},
		}, opt)
		return err
	})
}

func (b *Bot) AddReaction(ctx context.Context, channelID, messageID string, r bot.Reaction) error {
	return b.call(ctx, func(opt discordgo.RequestOption) error {
		return b.dg.MessageReactionAdd(channelID, messageID, r.APIName(), opt)
	})
}

func (b *Bot) RemoveReaction(ctx context.Context, channelID, messageID string, r bot.Reaction, userID string) error {
	return b.call(ctx, func(opt discordgo.RequestOption) error {
		return b.dg.MessageReactionRemove(channelID, messageID, r.APIName(), userID, opt)
	})
}

func (b *Bot) GetMessage(ctx context.Context, channelID, messageID string) (*bot.Message, error) {
	var m *discordgo.Message
	err := b.call(ctx, func(opt discordgo.RequestOption) error {
		var err error
		m, err = b.dg.ChannelMessage(channelID, messageID, opt)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &bot.Message{ID: m.ID, ChannelID: m.ChannelID, Content: m.Content}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
	}
	return out, nil
}

// Channel reads the state cache first and falls back to REST.
func (b *Bot) Channel(ctx context.Context, channelID string) (*bot.Channel, error) {
	ch, err := b.dg.State.Channel(channelID)
	if err != nil {
		err = b.call(ctx, func(opt discordgo.RequestOption) error {
			var err error
			ch, err = b.dg.Channel(channelID, opt)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return &bot.Channel{ID: ch.ID, GuildID: ch.GuildID, Name: ch.Name, Text: isTextChannel(ch.Type)}, nil
}

// Guild reads the state cache first and falls back to REST.
func (b *Bot) Guild(ctx context.Context, guildID string) (*bot.Guild, error) {
	g, err := b.dg.State.Guild(guildID)
	if err != nil {
		err = b.call(ctx, func(opt discordgo.RequestOption) error {
			var err error
			g, err = b.dg.Guild(guildID, opt)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return &bot.Guild{ID: g.ID, Name: g.Name}, nil
}

func isTextChannel(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM:
		return true
	}
	return false
}

// splitMessage cuts text into chunks of at most limit runes, preferring line
// breaks. Empty text yields one empty chunk.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	rs := []rune(text)
	for len(rs) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if rs[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(rs[:cut]))
		rs = rs[cut:]
	}
	if len(rs) > 0 {
		chunks = append(chunks, string(rs))
	}
	return chunks
}
