// backfillcounts - Recomputes the paper counters on every course document
// from the actual subcollection contents, excluding placeholder papers.
//
// Usage:
//   go run ./cmd/backfillcounts                       # All courses
//   go run ./cmd/backfillcounts -resume-from "SOC 3308"
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

// counterFields maps each category subcollection to the counter it feeds
// on the course document.
var counterFields = map[string]string{
	"mid-semester": "mid_sem_papers",
	"end-semester": "end_sem_papers",
	"quizzes":      "quiz_papers",
}

func main() {
	resumeFrom := flag.String("resume-from", "", "Skip courses until this course ID is reached")
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
	skipped := 0
	errors := 0
	started := *resumeFrom == ""

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
		courseID := course.Ref.ID

		if !started {
			if courseID == *resumeFrom {
				started = true
			} else {
				skipped++
				continue
			}
		}

		updates := map[string]interface{}{}
		total := 0
		countFailed := false
		for _, category := range store.Categories {
			count, err := countPapers(ctx, st, courseID, category)
			if err != nil {
				logger.Error("counting papers failed",
					zap.String("course", courseID),
					zap.String("category", category),
					zap.Error(err))
				countFailed = true
				break
			}
			updates[counterFields[category]] = count
			total += count
		}
		if countFailed {
			errors++
			continue
		}
		updates["total_papers"] = total

		if _, err := course.Ref.Set(ctx, updates, firestore.MergeAll); err != nil {
			logger.Error("updating course failed", zap.String("course", courseID), zap.Error(err))
			errors++
			continue
		}
		updated++
		logger.Info("updated course counters",
			zap.String("course", courseID), zap.Int("total_papers", total))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Courses updated: %d\n", updated)
	if skipped > 0 {
		fmt.Printf("Skipped (before resume point): %d\n", skipped)
	}
	if errors > 0 {
		fmt.Printf("Errors: %d\n", errors)
	}
}

// countPapers counts real papers in one category, excluding the
// placeholder sentinel.
func countPapers(ctx context.Context, st *store.Client, courseID, category string) (int, error) {
	count := 0
	papers := st.Papers(courseID, category).Documents(ctx)
	defer papers.Stop()
	for {
		paper, err := papers.Next()
		if err == iterator.Done {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
		if paper.Ref.ID == store.PlaceholderID {
			continue
		}
		count++
	}
}
