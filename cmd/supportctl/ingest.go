package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supportdesk/backend/internal/wire"
)

func newIngestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load historical interactions into the knowledge base",
		Long: `Reads a JSON array or JSONL file of historical support interactions
(id, category, broad_category, customer_message, agent_reply), splits them
into chunks, embeds them and upserts them into the Qdrant collection.
Re-ingesting the same file overwrites the same points.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := wire.InitializeIngest(loadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize ingest: %w", err)
			}
			defer cleanup()

			result, err := svc.IngestFile(ctx, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d interactions, skipped %d, upserted %d chunks\n",
				result.Loaded, result.Skipped, result.Chunks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or JSONL file with historical interactions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
