// clonedb - Copies the duplicates and courses collections (with category
// subcollections) from the main project into a second Firestore project,
// preserving document IDs. Used to rehearse destructive scripts against a
// test database.
//
// Requires DEST_FIRESTORE_PROJECT and DEST_FIRESTORE_CREDENTIALS.
//
// Usage:
//   go run ./cmd/clonedb
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

// collections to transfer; courses carries its category subcollections.
var transfers = []struct {
	name string
	subs []string
}{
	{name: store.CollDuplicates},
	{name: store.CollCourses, subs: store.Categories},
}

const commitPause = 100 * time.Millisecond

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
	if cfg.DestProjectID == "" || cfg.DestCredentialsFile == "" {
		logger.Fatal("DEST_FIRESTORE_PROJECT and DEST_FIRESTORE_CREDENTIALS must be set")
	}

	ctx := context.Background()
	source, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("source connection failed", zap.Error(err))
	}
	defer source.Close()

	dest, err := store.New(ctx, cfg.DestProjectID, cfg.DestCredentialsFile)
	if err != nil {
		logger.Fatal("destination connection failed", zap.Error(err))
	}
	defer dest.Close()

	fmt.Printf("Source:      %s\n", cfg.ProjectID)
	fmt.Printf("Destination: %s\n", cfg.DestProjectID)
	fmt.Println()

	totalDocs := 0
	for _, tr := range transfers {
		count, err := transferCollection(ctx, source, dest, cfg.BatchSize, tr.name, tr.subs, logger)
		if err != nil {
			logger.Fatal("transfer failed", zap.String("collection", tr.name), zap.Error(err))
		}
		totalDocs += count
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Documents copied: %d\n", totalDocs)
	fmt.Println("\nRemember to point removeduplicates at the destination project's")
	fmt.Println("credentials before rehearsing a deletion run against it.")
}

func transferCollection(ctx context.Context, source, dest *store.Client, batchSize int, name string, subs []string, logger *zap.Logger) (int, error) {
	logger.Info("transferring collection", zap.String("collection", name))

	batch := store.NewBatchWriter(dest, batchSize).WithPause(commitPause)
	count := 0

	docs := source.Firestore().Collection(name).Documents(ctx)
	defer docs.Stop()
	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, fmt.Errorf("streaming %s: %w", name, err)
		}

		destRef := dest.Firestore().Collection(name).Doc(doc.Ref.ID)
		if err := batch.Set(ctx, destRef, doc.Data()); err != nil {
			return count, err
		}
		count++

		for _, sub := range subs {
			subCount, err := transferSubcollection(ctx, doc.Ref.Collection(sub), destRef.Collection(sub), dest, batchSize)
			if err != nil {
				return count, fmt.Errorf("streaming %s/%s/%s: %w", name, doc.Ref.ID, sub, err)
			}
			count += subCount
		}

		if count%500 == 0 {
			logger.Info("transfer progress", zap.String("collection", name), zap.Int("docs", count))
		}
	}

	if err := batch.Flush(ctx); err != nil {
		return count, err
	}
	logger.Info("finished collection", zap.String("collection", name), zap.Int("docs", count))
	return count, nil
}

func transferSubcollection(ctx context.Context, src, dst *firestore.CollectionRef, dest *store.Client, batchSize int) (int, error) {
	batch := store.NewBatchWriter(dest, batchSize).WithPause(commitPause / 2)
	count := 0

	docs := src.Documents(ctx)
	defer docs.Stop()
	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, err
		}
		if err := batch.Set(ctx, dst.Doc(doc.Ref.ID), doc.Data()); err != nil {
			return count, err
		}
		count++
	}
	return count, batch.Flush(ctx)
}
