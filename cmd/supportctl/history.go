package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/storage"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		category  string
		handledBy string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent interactions from the local log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := storage.OpenDB(config.ResolveDatabasePath(&cfg.Database))
			if err != nil {
				return err
			}
			defer db.Close()
			if err := storage.InitSchema(db); err != nil {
				return err
			}

			repo := storage.NewConversationRepository(db)
			records, err := repo.List(domain.ConversationFilter{
				Category:  domain.Category(category),
				HandledBy: domain.HandledBy(handledBy),
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tCATEGORY\tHANDLED BY\tSTATUS\tMESSAGE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					r.Category, r.HandledBy, r.Status, truncate(r.Message, 60))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&handledBy, "handled-by", "", "filter by ai_agent or human_agent")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
