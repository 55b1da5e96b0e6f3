// backfilllecturers - Rebuilds lecturer search fields (lowercaseName,
// searchableFields) and, with -ratings, recomputes each lecturer's
// average rating and rating count from the reviews subcollection.
//
// Usage:
//   go run ./cmd/backfilllecturers
//   go run ./cmd/backfilllecturers -ratings
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/catalog"
	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	ratings := flag.Bool("ratings", false, "Also recompute rating/totalRatings from reviews")
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

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	updated := 0
	errors := 0

	lecturers := st.Lecturers().Documents(ctx)
	defer lecturers.Stop()
	for {
		lecturer, err := lecturers.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("listing lecturers failed", zap.Error(err))
		}

		var doc store.LecturerDoc
		if err := lecturer.DataTo(&doc); err != nil {
			logger.Warn("undecodable lecturer document",
				zap.String("lecturer", lecturer.Ref.ID), zap.Error(err))
			errors++
			continue
		}

		lowercase, fields := catalog.LecturerSearchFields(doc.Name)
		updates := []firestore.Update{
			{Path: "lowercaseName", Value: lowercase},
			{Path: "searchableFields", Value: fields},
		}

		if *ratings {
			avg, count, err := reviewStats(ctx, lecturer.Ref)
			if err != nil {
				logger.Error("reading reviews failed",
					zap.String("lecturer", lecturer.Ref.ID), zap.Error(err))
				errors++
				continue
			}
			updates = append(updates,
				firestore.Update{Path: "rating", Value: avg},
				firestore.Update{Path: "totalRatings", Value: count},
			)
		}

		if _, err := lecturer.Ref.Update(ctx, updates); err != nil {
			logger.Error("updating lecturer failed",
				zap.String("lecturer", lecturer.Ref.ID), zap.Error(err))
			errors++
			continue
		}
		updated++
		logger.Info("updated lecturer",
			zap.String("lecturer", lecturer.Ref.ID), zap.String("name", doc.Name))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Lecturers updated: %d\n", updated)
	if errors > 0 {
		fmt.Printf("Errors:            %d\n", errors)
	}
}

// reviewStats averages the rating field across a lecturer's reviews.
// Reviews without a numeric rating are ignored.
func reviewStats(ctx context.Context, lecturer *firestore.DocumentRef) (avg float64, count int64, err error) {
	var sum float64

	reviews := lecturer.Collection(store.SubReviews).Documents(ctx)
	defer reviews.Stop()
	for {
		review, err := reviews.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, 0, err
		}
		switch v := review.Data()["rating"].(type) {
		case int64:
			sum += float64(v)
			count++
		case float64:
			sum += v
			count++
		}
	}

	if count == 0 {
		return 0, 0, nil
	}
	return math.Round(sum/float64(count)*100) / 100, count, nil
}
