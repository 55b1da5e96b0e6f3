// backfillsearch - Rebuilds the denormalized search fields on every
// course document (course_name_lowercase and searchable_fields), batched
// to stay under the write-op limit.
//
// Usage:
//   go run ./cmd/backfillsearch
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/catalog"
	"github.com/LeeNgari/FirebaseScripts/internal/config"
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

	batch := store.NewBatchWriter(st, cfg.BatchSize)
	updated := 0

	courses := st.Courses().Documents(ctx)
	defer courses.Stop()
	for {
		course, err := courses.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("listing courses failed", zap.Error(err))
		}

		var doc store.CourseDoc
		if err := course.DataTo(&doc); err != nil {
			logger.Warn("undecodable course document",
				zap.String("course", course.Ref.ID), zap.Error(err))
			continue
		}

		normalized := doc.NormalizedCode
		if normalized == "" {
			normalized = catalog.NormalizeCode(course.Ref.ID)
		}

		err = batch.Update(ctx, course.Ref, []firestore.Update{
			{Path: "course_name_lowercase", Value: strings.ToLower(doc.CourseName)},
			{Path: "normalized_code", Value: normalized},
			{Path: "searchable_fields", Value: catalog.SearchableFields(doc.CourseName, normalized)},
		})
		if err != nil {
			logger.Fatal("batch commit failed", zap.Error(err))
		}
		updated++

		if updated%100 == 0 {
			logger.Info("progress", zap.Int("updated", updated))
		}
	}

	if err := batch.Flush(ctx); err != nil {
		logger.Fatal("final batch commit failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Courses updated: %d\n", updated)
	fmt.Printf("Batches committed: %d\n", batch.Commits())
}
