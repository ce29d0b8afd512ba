package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/pkg/cmd"
)

// FolderCommand posts a random file from Dir.
type FolderCommand struct {
	Dir string
	// Exclude lists file names that are never picked.
	Exclude []string
	// Captions maps file names to the text sent along with them.
	Captions map[string]string
	// Pick returns a number in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

func (c *FolderCommand) Name() string        { return "folder" }
func (c *FolderCommand) Description() string { return "Post a random file from the folder" }
func (c *FolderCommand) Aliases() []string   { return []string{"f"} }
func (c *FolderCommand) Usage() string       { return "folder" }
func (c *FolderCommand) Category() string    { return "🎞️ Media" }

func (c *FolderCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	files, err := c.candidates()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", cmd.Userf("The folder is empty.")
	}

	pick := c.Pick
	if pick == nil {
		pick = rand.IntN
	}
	name := files[pick(len(files))]
	if err := mc.Platform.SendFile(ctx, mc.Event.ChannelID, filepath.Join(c.Dir, name), c.Captions[name]); err != nil {
		return "", fmt.Errorf("send %s: %w", name, err)
	}
	return "", nil
}

// candidates returns the regular, non-hidden file names in Dir, sorted.
func (c *FolderCommand) candidates() ([]string, error) {
	if c.Dir == "" {
		return nil, fmt.Errorf("folder path is not configured")
	}
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || slices.Contains(c.Exclude, name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
