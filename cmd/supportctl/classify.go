package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
)

func newClassifyCmd() *cobra.Command {
	var anger float64

	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Preview keyword classification and handoff for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			store, err := policy.ProvideStore(&cfg.Support)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			rs := store.Current()
			category, keyword := rs.Classifier.MatchedKeyword(text)
			escalate, err := rs.Handoff.ShouldEscalate(category, anger)
			if err != nil {
				return err
			}

			handledBy := domain.HandledByAI
			if escalate {
				handledBy = domain.HandledByHuman
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "category:   %s\n", category)
			if keyword != "" {
				fmt.Fprintf(out, "keyword:    %s\n", keyword)
			} else {
				fmt.Fprintln(out, "keyword:    (none, default category)")
			}
			fmt.Fprintf(out, "handled_by: %s\n", handledBy)
			return nil
		},
	}

	cmd.Flags().Float64Var(&anger, "anger", 0, "anger level in [0,1] used for the handoff decision")
	return cmd
}
