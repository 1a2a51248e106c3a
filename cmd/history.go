package cmd

import (
	"codex_backend/internal/repository"
	"codex_backend/internal/service"
	"codex_backend/internal/util"
	"codex_backend/pkg/database"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(&opts.cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			repo := repository.NewHistoryRepository(db)
			total, err := repo.CountByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			list, err := service.NewHistoryService(repo, opts.cfg.History.ListLimit).List(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d record(s) for %s, showing %d\n", total, userID, len(list))
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLANGUAGE\tCREATED\tSIZE")
			for _, h := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", h.ID, h.Language, h.CreatedAt.Format(util.TimeFormat), len(h.Code))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
