// grantcoins - Adds a fixed number of coins to every user's balance via
// atomic increments, batched to stay under the write-op limit.
//
// Usage:
//   go run ./cmd/grantcoins                    # Dry run
//   go run ./cmd/grantcoins -apply             # Grant 10 coins each
//   go run ./cmd/grantcoins -apply -amount 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	apply := flag.Bool("apply", false, "Apply the grant (default is dry-run)")
	amount := flag.Int64("amount", 10, "Coins to add per user")
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

	fmt.Printf("Amount per user: %d\n", *amount)
	fmt.Printf("Mode: %s\n", map[bool]string{true: "APPLY", false: "DRY-RUN"}[*apply])
	fmt.Println()

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	// Snapshot current balances so the summary can show before/after.
	before := make(map[string]int64)
	var order []string

	users := st.Users().Documents(ctx)
	defer users.Stop()
	for {
		user, err := users.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("listing users failed", zap.Error(err))
		}
		var doc store.UserDoc
		if err := user.DataTo(&doc); err != nil {
			logger.Warn("undecodable user document",
				zap.String("user", user.Ref.ID), zap.Error(err))
			continue
		}
		before[user.Ref.ID] = doc.Coins
		order = append(order, user.Ref.ID)
	}

	fmt.Printf("Users found: %d\n", len(order))

	if !*apply {
		fmt.Printf("\nDRY RUN: would add %d coins to each of %d users\n", *amount, len(order))
		return
	}

	batch := store.NewBatchWriter(st, cfg.BatchSize)
	for _, id := range order {
		err := batch.Update(ctx, st.Users().Doc(id), []firestore.Update{
			{Path: "coins", Value: firestore.Increment(*amount)},
		})
		if err != nil {
			logger.Fatal("batch commit failed", zap.Error(err))
		}
	}
	if err := batch.Flush(ctx); err != nil {
		logger.Fatal("final batch commit failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Users updated:     %d\n", batch.Ops())
	fmt.Printf("Batches committed: %d\n", batch.Commits())

	fmt.Println("\nSample of updated users:")
	sample := order
	if len(sample) > 5 {
		sample = sample[:5]
	}
	for _, id := range sample {
		fmt.Printf("  %s: before=%d after=%d\n", id, before[id], before[id]+*amount)
	}
}
