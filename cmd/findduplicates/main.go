// findduplicates - Scans every paper file in the catalog, hashes the
// content, and records exact and perceptually similar duplicates.
//
// Usage:
//   go run ./cmd/findduplicates
//
// Results land in the fileHashes and duplicates collections; a later run
// of removeduplicates acts on the duplicate entries.
package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/dedup"
	"github.com/LeeNgari/FirebaseScripts/internal/fetch"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	fetcher := fetch.New(cfg.FetchTimeout, cfg.RetryLimit, logger)
	state := dedup.NewSharedState()
	proc := dedup.NewProcessor(fetcher, state, cfg.SimilarityThreshold)
	scanner := dedup.NewScanner(st, proc, cfg.Concurrency, logger)

	results, err := scanner.Run(ctx)
	if err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}

	writer := dedup.NewWriter(st, cfg.BatchSize)
	stats, err := writer.Write(ctx, results)
	if err != nil {
		logger.Fatal("writing results failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Files processed:  %d\n", len(results))
	fmt.Printf("Hashes stored:    %d\n", stats.HashesStored)
	fmt.Printf("Duplicates found: %d\n", stats.Duplicates)
	fmt.Printf("Errors:           %d\n", stats.Errored)
}
