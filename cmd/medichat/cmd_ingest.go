package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"medichat/internal/config"
	"medichat/internal/gateway"
	"medichat/internal/ingest"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a text or PDF file into the vector index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize gateway: %w", err)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var result *ingest.Result
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		result, err = gw.Ingestor().IngestPDF(ctx, bytes.NewReader(data), int64(len(data)))
	} else {
		result, err = gw.Ingestor().IngestText(ctx, string(data), ingest.SourceText)
	}
	if err != nil {
		return err
	}

	fmt.Printf("stored %d chunks from %s as document %s\n", result.ChunksStored, path, result.DocumentID)
	return nil
}
