package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/storage"
	"github.com/keshon/ceres/pkg/cmd"
)

// HistoryReader reads a guild's command history, oldest first.
type HistoryReader interface {
	FetchCommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

type HistoryCommand struct {
	Store HistoryReader
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the last commands used in this server" }
func (c *HistoryCommand) Aliases() []string   { return []string{"hist"} }
func (c *HistoryCommand) Usage() string       { return "history" }
func (c *HistoryCommand) Category() string    { return "🛠️ Maintenance" }

func (c *HistoryCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	guildID := mc.Event.GuildID
	if guildID == "" {
		return "", cmd.Userf("History is only kept for servers.")
	}
	records, err := c.Store.FetchCommandHistory(guildID)
	if err != nil {
		return "", fmt.Errorf("fetch history: %w", err)
	}
	if len(records) == 0 {
		return "No commands recorded yet.", nil
	}
	return "```\n" + FormatHistory(records) + "```", nil
}

// FormatHistory renders one line per record, oldest first.
func FormatHistory(records []storage.CommandHistoryRecord) string {
	var sb strings.Builder
	for _, r := range records {
		line := fmt.Sprintf("%s %s #%s %s", r.Datetime.UTC().Format("2006-01-02 15:04"), r.Username, r.ChannelName, r.Command)
		if r.Param != "" {
			line += " " + r.Param
		}
		if r.Outcome != "" {
			line += " [" + r.Outcome + "]"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
