package cmd

import (
	"codex_backend/internal/config"
	"context"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir    string
	forceMigrate bool
	cfg          *config.Config
}

// NewRootCmd 不带子命令时等同于 serve
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serveCmd := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "codex",
		Short: "CodeX backend - code analysis API",
		Long:  "CodeX backend serves code analysis and per-user submission history over HTTP.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configDir)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		RunE:          serveCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configDir, "config", "c", "configs", "Directory containing config.yaml")
	addServeFlags(root, opts)

	root.AddCommand(serveCmd)
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newAnalyzeCommand(opts))
	root.AddCommand(newHistoryCommand(opts))
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
