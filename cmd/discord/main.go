// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/keshon/ceres/internal/command/catalog"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/discord"
	"github.com/keshon/ceres/internal/dispatch"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/internal/storage"
	v "github.com/keshon/ceres/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot (%s)...", v.AppName, v.BuildVersion)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DiscordToken == "" {
		log.Fatal("[ERR] DISCORD_TOKEN is not set")
	}

	sink, err := logsink.New(cfg.LogPath, logsink.WithMaxSize(cfg.LogMaxSize))
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	bot, err := discord.NewBot(cfg, sink)
	if err != nil {
		log.Fatal(err)
	}

	registry, err := catalog.Registry(catalog.Deps{
		Config:  cfg,
		Log:     sink,
		History: store,
		Status:  bot.Presence(),
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[INFO] Registered %d commands", len(registry.GetAll()))

	dispatcher := dispatch.New(bot, registry, sink, dispatch.Options{
		Prefix: cfg.Prefix,
		Filter: dispatch.Filter{
			TriggerAuthorID: cfg.ReminderAuthorID,
			TriggerText:     cfg.ReminderTrigger,
		},
		ReminderReply:  cfg.ReminderReply,
		CommandTimeout: cfg.CommandTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(gctx, dispatcher.Handle)
	})
	g.Go(func() error {
		return bot.Presence().Schedule(gctx, cfg.StatusCron)
	})
	g.Go(func() error {
		select {
		case s := <-sig:
			log.Printf("[INFO] Received signal %s, shutting down...\n", s)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Println("[ERR] Discord bot error:", err)
		return
	}
	log.Println("[INFO] Discord bot exited cleanly")
}
