// Package bot holds the chat-platform view the command pipeline works against:
// inbound message events, reactions and the outbound Platform calls.
package bot

// Embed is the part of a rich embed the pipeline inspects.
type Embed struct {
	Title       string
	Description string
}

// InboundEvent is an immutable view of one received message.
type InboundEvent struct {
	MessageID  string
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	// System marks messages not written by a user (joins, pins, boosts...).
	System bool

	Content     string
	ChannelID   string
	ChannelName string
	GuildID     string

	// ReplyToID is the referenced message when this one is a reply.
	ReplyToID string
	Embeds    []Embed
}

// FirstEmbedDescription returns the description of the first embed, or "".
func (e InboundEvent) FirstEmbedDescription() string {
	if len(e.Embeds) == 0 {
		return ""
	}
	return e.Embeds[0].Description
}

// Ref references the event's own message.
func (e InboundEvent) Ref() MessageRef {
	return MessageRef{MessageID: e.MessageID, ChannelID: e.ChannelID, GuildID: e.GuildID}
}

// MessageRef points at a message, e.g. as a reply target.
type MessageRef struct {
	MessageID string
	ChannelID string
	GuildID   string
}

// Message is a message fetched from the platform.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// Channel is a channel fetched from the platform.
type Channel struct {
	ID      string
	GuildID string
	Name    string
	// Text is true for channels messages can be sent to.
	Text bool
}

// Guild is a guild fetched from the platform.
type Guild struct {
	ID   string
	Name string
}
