package main

import (
	"fmt"

	"github.com/spf13/cobra"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
)

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and validate routing policy files",
	}
	cmd.AddCommand(newPolicyCheckCmd(), newPolicyDefaultCmd())
	return cmd
}

func newPolicyCheckCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a policy file without loading it into the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := policy.LoadFile(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := rs.Policy
			fmt.Fprintf(out, "%s: ok\n", file)
			fmt.Fprintf(out, "  categories:       %d\n", len(p.Categories))
			fmt.Fprintf(out, "  default category: %s\n", p.DefaultCategory)
			fmt.Fprintf(out, "  anger threshold:  %.2f\n", p.AngerThreshold)
			fmt.Fprintf(out, "  always human:     %v\n", p.HumanInterventionCategories)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "policy YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPolicyDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the built-in policy as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := policy.Marshal(domain.DefaultPolicy())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
