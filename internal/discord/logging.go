package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ceres/internal/logsink"
)

// routeLibraryLogs sends discordgo's own log output to the sink.
func routeLibraryLogs(sink *logsink.Sink) {
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		sink.Log(libraryLevel(msgL), "discordgo", format, a...)
	}
}

func libraryLevel(msgL int) logsink.Severity {
	switch msgL {
	case discordgo.LogError:
		return logsink.Error
	case discordgo.LogWarning:
		return logsink.Warning
	case discordgo.LogInformational:
		return logsink.Info
	default:
		return logsink.Debug
	}
}
