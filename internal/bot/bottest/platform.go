// Package bottest provides an in-memory bot.Platform that records every call.
package bottest

import (
	"context"
	"sync"

	"github.com/keshon/ceres/internal/bot"
)

// Operation names recorded in Call.Op.
const (
	OpSend           = "send"
	OpReply          = "reply"
	OpFile           = "file"
	OpAddReaction    = "react+"
	OpRemoveReaction = "react-"
	OpGetMessage     = "get-message"
	OpChannel        = "channel"
	OpGuild          = "guild"
)

// Call is one recorded Platform call.
type Call struct {
	Op        string
	ChannelID string
	MessageID string
	GuildID   string
	Text      string
	Path      string
	UserID    string
	Reaction  bot.Reaction
	Ref       bot.MessageRef
}

// Platform is a fake bot.Platform. Lookups are served from the maps; Errs
// forces an error for an operation.
type Platform struct {
	Self string

	Messages map[string]*bot.Message // keyed by channelID + "/" + messageID
	Channels map[string]*bot.Channel
	Guilds   map[string]*bot.Guild
	Errs     map[string]error

	// OnCall, when set, runs for every recorded call before it returns.
	OnCall func(Call)

	mu    sync.Mutex
	calls []Call
}

// New returns an empty fake whose own user id is selfID.
func New(selfID string) *Platform {
	return &Platform{
		Self:     selfID,
		Messages: make(map[string]*bot.Message),
		Channels: make(map[string]*bot.Channel),
		Guilds:   make(map[string]*bot.Guild),
		Errs:     make(map[string]error),
	}
}

// AddMessage makes a message retrievable through GetMessage.
func (p *Platform) AddMessage(m *bot.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages[m.ChannelID+"/"+m.ID] = m
}

// AddChannel makes a guild and its text channel retrievable.
func (p *Platform) AddChannel(guildID, channelID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.Guilds[guildID]; !ok {
		p.Guilds[guildID] = &bot.Guild{ID: guildID, Name: "guild-" + guildID}
	}
	p.Channels[channelID] = &bot.Channel{ID: channelID, GuildID: guildID, Name: name, Text: true}
}

// Calls returns a copy of the recorded calls.
func (p *Platform) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Ops returns the recorded operation names in order.
func (p *Platform) Ops() []string {
	var ops []string
	for _, c := range p.Calls() {
		ops = append(ops, c.Op)
	}
	return ops
}

// Count returns how many calls of op were recorded.
func (p *Platform) Count(op string) int {
	n := 0
	for _, c := range p.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Outbound returns the recorded calls that change platform state.
func (p *Platform) Outbound() []Call {
	var out []Call
	for _, c := range p.Calls() {
		switch c.Op {
		case OpSend, OpReply, OpFile, OpAddReaction, OpRemoveReaction:
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the text of every send and reply, in order.
func (p *Platform) Texts() []string {
	var out []string
	for _, c := range p.Calls() {
		if c.Op == OpSend || c.Op == OpReply {
			out = append(out, c.Text)
		}
	}
	return out
}

func (p *Platform) record(c Call) error {
	p.mu.Lock()
	p.calls = append(p.calls, c)
	err := p.Errs[c.Op]
	hook := p.OnCall
	p.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	return err
}

func (p *Platform) SelfID() string { return p.Self }

func (p *Platform) SendMessage(ctx context.Context, channelID, text string) error {
	return p.record(Call{Op: OpSend, ChannelID: channelID, Text: text})
}

func (p *Platform) SendReply(ctx context.Context, channelID, text string, ref bot.MessageRef) error {
	return p.record(Call{Op: OpReply, ChannelID: channelID, Text: text, Ref: ref})
}

func (p *Platform) SendFile(ctx context.Context, channelID, path, caption string) error {
	return p.record(Call{Op: OpFile, ChannelID: channelID, Path: path, Text: caption})
}

func (p *Platform) AddReaction(ctx context.Context, channelID, messageID string, r bot.Reaction) error {
	return p.record(Call{Op: OpAddReaction, ChannelID: channelID, MessageID: messageID, Reaction: r})
}

func (p *Platform) RemoveReaction(ctx context.Context, channelID, messageID string, r bot.Reaction, userID string) error {
	return p.record(Call{Op: OpRemoveReaction, ChannelID: channelID, MessageID: messageID, Reaction: r, UserID: userID})
}

func (p *Platform) GetMessage(ctx context.Context, channelID, messageID string) (*bot.Message, error) {
	if err := p.record(Call{Op: OpGetMessage, ChannelID: channelID, MessageID: messageID}); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.Messages[channelID+"/"+messageID]
	if !ok {
		return nil, bot.ErrNotFound
	}
	return m, nil
}

func (p *Platform) Channel(ctx context.Context, channelID string) (*bot.Channel, error) {
	if err := p.record(Call{Op: OpChannel, ChannelID: channelID}); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.Channels[channelID]
	if !ok {
		return nil, bot.ErrNotFound
	}
	return c, nil
}

func (p *Platform) Guild(ctx context.Context, guildID string) (*bot.Guild, error) {
	if err := p.record(Call{Op: OpGuild, GuildID: guildID}); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.Guilds[guildID]
	if !ok {
		return nil, bot.ErrNotFound
	}
	return g, nil
}
