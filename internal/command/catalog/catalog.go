// Package catalog is the static command table of the bot.
package catalog

import (
	"path/filepath"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/command/core"
	"github.com/keshon/ceres/internal/command/owner"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/internal/middleware"
	"github.com/keshon/ceres/internal/storage"
	"github.com/keshon/ceres/pkg/cmd"
)

// defaultEggName is never picked by the folder command.
const defaultEggName = "ei.png"

// Store is the command history store.
type Store interface {
	middleware.HistoryStore
	core.HistoryReader
}

// Deps are the services commands are built with. History and Status are
// optional: without History no history is recorded and the history command
// is left out.
type Deps struct {
	Config  *config.Config
	Log     *logsink.Sink
	History Store
	Status  core.StatusUpdater
}

// Commands builds every command with its middleware chain: the owner check
// outermost, then the execution guard, then history recording.
func Commands(d Deps) []cmd.Command {
	cfg := d.Config
	marker := bot.ParseReaction(cfg.Marker)

	chain := func(extra ...cmd.Middleware) []cmd.Middleware {
		mws := append(extra, middleware.WithExecutionGuard(marker, d.Log))
		if d.History != nil {
			mws = append(mws, middleware.WithHistory(d.History, d.Log))
		}
		return mws
	}

	exclude := []string{defaultEggName}
	if cfg.EggPath != "" {
		exclude = append(exclude, filepath.Base(cfg.EggPath))
	}

	list := []command.MessageCommand{
		&core.HelpCommand{},
		&core.EchoCommand{},
		&core.ReactCommand{},
		&core.EggCommand{Path: cfg.EggPath},
		&core.WhoKnowsCommand{},
		&core.FolderCommand{Dir: cfg.FolderPath, Exclude: exclude, Captions: cfg.FolderCaptions},
		&core.UpdateFrontCommand{Status: d.Status},
	}
	if d.History != nil {
		list = append(list, &core.HistoryCommand{Store: d.History})
	}

	out := make([]cmd.Command, 0, len(list)+1)
	for _, c := range list {
		out = append(out, command.Adapt(c, chain()...))
	}
	out = append(out, command.Adapt(&owner.EvalCommand{}, chain(middleware.WithOwnerOnly(cfg.IsOwner))...))
	return out
}

// Registry builds the registry over Commands.
func Registry(d Deps) (*cmd.Registry, error) {
	return cmd.NewRegistry(Commands(d)...)
}

var _ Store = (*storage.Storage)(nil)
