// removeduplicates - Acts on the duplicate entries recorded by
// findduplicates: removes each duplicate URL from its owning paper and
// deletes the entry once the URL is confirmed gone.
//
// A restore-point timestamp is written to a local file before any
// destructive work begins; it is the manual rollback anchor.
//
// Usage:
//   go run ./cmd/removeduplicates          # Dry run
//   go run ./cmd/removeduplicates -apply   # Apply removals
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/dedup"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	apply := flag.Bool("apply", false, "Apply removals (default is dry-run)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	fmt.Printf("Project: %s\n", cfg.ProjectID)
	fmt.Printf("Mode: %s\n", map[bool]string{true: "APPLY", false: "DRY-RUN"}[*apply])
	fmt.Println()

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	if !*apply {
		total, incomplete := countDuplicates(ctx, st, logger)
		fmt.Printf("Duplicate entries pending: %d\n", total)
		fmt.Printf("Entries missing required fields: %d\n", incomplete)
		fmt.Println("\nThis was a DRY RUN. To remove duplicate URLs, run:")
		fmt.Println("  go run ./cmd/removeduplicates -apply")
		return
	}

	remover := dedup.NewRemover(st, cfg.RemovePause, cfg.RestorePointFile, cfg.RemovedLogFile, logger)
	stats, err := remover.Run(ctx)
	if err != nil {
		logger.Fatal("removal run failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Entries processed: %d\n", stats.Processed)
	fmt.Printf("URLs removed:      %d\n", stats.Removed)
	fmt.Printf("Skipped:           %d\n", stats.Skipped)
	fmt.Printf("Errors:            %d\n", stats.Errors)
}

func countDuplicates(ctx context.Context, st *store.Client, logger *zap.Logger) (total, incomplete int) {
	iter := st.Duplicates().Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("streaming duplicates failed", zap.Error(err))
		}
		total++
		var entry store.DuplicateDoc
		if err := doc.DataTo(&entry); err != nil || entry.Incomplete() {
			incomplete++
		}
	}
	return total, incomplete
}
