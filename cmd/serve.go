package cmd

import (
	"codex_backend/internal/app"

	"github.com/spf13/cobra"
)

func addServeFlags(cmd *cobra.Command, opts *rootOptions) {
	cmd.Flags().BoolVar(&opts.forceMigrate, "migrate", false, "Run database migration on startup even in release mode")
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg.ForceMigrate = opts.forceMigrate

			application, err := app.NewApp(opts.cfg)
			if err != nil {
				return err
			}
			return application.Serve(cmd.Context())
		},
	}
	addServeFlags(cmd, opts)
	return cmd
}
