package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/pkg/retrylimit"
)

const source = "discord"

// Handler receives every inbound message event.
type Handler func(ctx context.Context, ev bot.InboundEvent)

// Bot is a Discord bot. It implements bot.Platform.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	sink     *logsink.Sink
	limiter  *retrylimit.AdaptiveLimiter
	retry    retrylimit.RetryConfig
	presence *Presence

	ctx    context.Context
	handle Handler
}

// NewBot creates the session without connecting.
func NewBot(cfg *config.Config, sink *logsink.Sink) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	// Retries, rate-limit pauses included, are driven by Bot.call.
	dg.MaxRestRetries = 0
	dg.ShouldRetryOnRateLimit = false
	dg.LogLevel = discordgo.LogWarning

	b := &Bot{
		dg:      dg,
		cfg:     cfg,
		sink:    sink,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		retry:   retrylimit.DefaultRetryConfig(),
	}
	b.retry.Status = restStatus
	b.retry.RetryAfter = restRetryAfter
	b.retry.OnRetry = func(attempt int, err error) {
		sink.Log(logsink.Warning, source, "request failed (attempt %d), retrying: %v", attempt, err)
	}
	b.presence = NewPresence(func(status string) error { return dg.UpdateGameStatus(0, status) }, cfg.StatusText, cfg.StatusFile, sink)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

// Presence returns the bot's status updater.
func (b *Bot) Presence() *Presence { return b.presence }

// Run connects and delivers events to handle until ctx is done.
func (b *Bot) Run(ctx context.Context, handle Handler) error {
	b.ctx, b.handle = ctx, handle
	routeLibraryLogs(b.sink)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

// configureIntents asks for message content in guilds and direct messages.
// Guilds keeps the state cache of channel names filled.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.sink.Log(logsink.Info, source, "connected as %s to %d guilds", userLabel(r.User), len(r.Guilds))
	go func() {
		if err := b.presence.Refresh(b.ctx); err != nil {
			b.sink.Log(logsink.Warning, source, "refresh status: %v", err)
		}
	}()
	log.Printf("[INFO] ✅ Discord bot %v is running.", r.User.Username)
}

// onMessageCreate is called when a message is created. discordgo runs each
// handler call in its own goroutine.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || b.handle == nil {
		return
	}
	b.handle(b.ctx, eventFromMessage(s.State, m.Message))
}

// eventFromMessage builds the pipeline's view of m. state may be nil.
func eventFromMessage(state *discordgo.State, m *discordgo.Message) bot.InboundEvent {
	ev := bot.InboundEvent{
		MessageID: m.ID,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		System:    m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply,
	}
	if m.Author != nil {
		ev.AuthorID = m.Author.ID
		ev.AuthorName = userLabel(m.Author)
		ev.AuthorBot = m.Author.Bot
	}
	if m.MessageReference != nil {
		ev.ReplyToID = m.MessageReference.MessageID
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		ev.Embeds = append(ev.Embeds, bot.Embed{Title: e.Title, Description: e.Description})
	}
	if state != nil {
		if ch, err := state.Channel(m.ChannelID); err == nil {
			ev.ChannelName = ch.Name
		}
	}
	return ev
}

func userLabel(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
