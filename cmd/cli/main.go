// cmd/cli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keshon/ceres/internal/command/catalog"
	"github.com/keshon/ceres/internal/command/core"
	"github.com/keshon/ceres/internal/command/owner"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/internal/storage"
	v "github.com/keshon/ceres/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ceres-cli",
		Short:         v.AppName + " maintenance tool",
		Version:       v.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $CERES_CONFIG)")

	load := func() (*config.Config, error) { return config.Load(configPath) }
	root.AddCommand(newCommandsCmd(load), newEvalCmd(load), newHistoryCmd(load))
	return root
}

type loader func() (*config.Config, error)

func newCommandsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "commands [name]",
		Short: "List the bot commands or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			reg, err := catalog.Registry(catalog.Deps{Config: cfg})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				c, ok := reg.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown command %q", args[0])
				}
				fmt.Fprintln(out, core.DescribeCommand(c, cfg.Prefix))
				return nil
			}
			fmt.Fprintln(out, core.BuildHelp(reg.GetAll(), cfg.Prefix))
			return nil
		},
	}
}

func newEvalCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <code>",
		Short: "Evaluate JavaScript the way the eval command does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CommandTimeout)
			defer cancel()

			out, err := owner.Evaluate(ctx, owner.TrimSource(strings.Join(args, " ")), nil)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

func newHistoryCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "history <guildID>",
		Short: "Print the recorded command history of a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.StoragePath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.FetchCommandHistory(args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No commands recorded yet.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), core.FormatHistory(records))
			return nil
		},
	}
}
