// Command loadxlsx converts a raw spreadsheet transaction export into the raw
// CSV artifact the pipeline consumes. It stands in for whatever external
// process normally delivers the first artifact.
package main

import (
	"flag"
	"log/slog"
	"os"

	"segpipe/internal/config"
	"segpipe/internal/dataset"
)

func main() {
	in := flag.String("in", "", "path to the .xlsx transaction export (required)")
	dataDir := flag.String("data-dir", "", "artifact store directory (overrides config)")
	out := flag.String("out", "", "raw transaction artifact name (overrides config)")
	flag.Parse()

	if *in == "" {
		slog.Error("missing required -in flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *out != "" {
		cfg.Data.RawArtifact = *out
	}

	table, err := dataset.LoadTransactionsXLSX(*in)
	if err != nil {
		slog.Error("failed to load spreadsheet export", "file", *in, "error", err)
		os.Exit(1)
	}

	store := dataset.NewStore(cfg.Data.Dir)
	if err := store.SaveTransactions(cfg.Data.RawArtifact, table); err != nil {
		slog.Error("failed to write raw artifact", "error", err)
		os.Exit(1)
	}
	slog.Info("raw artifact ready",
		"artifact", cfg.Data.RawArtifact,
		"rows", table.Len())
}
