package dedup

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

// Remover walks the duplicates collection and removes each recorded
// duplicate URL from its owning paper, deleting the duplicate entry only
// once the URL is actually gone. Entries are processed strictly one at a
// time with a pacing limiter between them.
type Remover struct {
	st               *store.Client
	log              *zap.Logger
	limiter          *rate.Limiter
	restorePointFile string
	removedLogFile   string
}

// RemoveStats summarizes one removal run.
type RemoveStats struct {
	Processed int
	Removed   int
	Skipped   int
	Errors    int
}

func NewRemover(st *store.Client, pause time.Duration, restorePointFile, removedLogFile string, log *zap.Logger) *Remover {
	if pause <= 0 {
		pause = 50 * time.Millisecond
	}
	return &Remover{
		st:               st,
		log:              log,
		limiter:          rate.NewLimiter(rate.Every(pause), 1),
		restorePointFile: restorePointFile,
		removedLogFile:   removedLogFile,
	}
}

// Run writes the restore point, then processes the entire duplicates
// collection once. Rerunning is safe: removing an already-absent URL is a
// benign "not removed" outcome and nothing is retried automatically.
func (r *Remover) Run(ctx context.Context) (RemoveStats, error) {
	var stats RemoveStats

	if err := r.writeRestorePoint(); err != nil {
		return stats, err
	}

	iter := r.st.Duplicates().Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("streaming duplicates: %w", err)
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		var entry store.DuplicateDoc
		if err := doc.DataTo(&entry); err != nil {
			r.log.Warn("undecodable duplicate entry",
				zap.String("id", doc.Ref.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		if entry.Incomplete() {
			r.log.Warn("duplicate entry missing required fields",
				zap.String("id", doc.Ref.ID))
			stats.Skipped++
			continue
		}

		removed, err := r.removeURL(ctx, entry)
		if err != nil {
			r.log.Error("failed to update owning paper",
				zap.String("id", doc.Ref.ID),
				zap.String("url", entry.DuplicateFileURL),
				zap.Error(err))
			stats.Errors++
			continue
		}
		stats.Processed++

		if removed {
			stats.Removed++
			if _, err := doc.Ref.Delete(ctx); err != nil {
				// The URL is already gone from the paper. Leave the entry
				// for manual follow-up rather than retrying here.
				r.log.Warn("failed to delete duplicate entry",
					zap.String("id", doc.Ref.ID), zap.Error(err))
			} else {
				r.log.Info("deleted duplicate entry", zap.String("id", doc.Ref.ID))
				r.logRemoved(doc.Ref.ID)
			}
		}

		if stats.Processed%100 == 0 {
			r.log.Info("removal progress", zap.Int("processed", stats.Processed))
		}
	}
	return stats, nil
}

// removeURL removes the duplicate URL from the owning paper inside a
// transaction. Returns false when the paper, its fileUrls field, or the
// URL itself is already gone — legitimate outcomes, not errors.
func (r *Remover) removeURL(ctx context.Context, entry store.DuplicateDoc) (bool, error) {
	ref := r.st.PaperRef(entry.CourseID, entry.Subcollection, entry.PaperDocID)
	removed := false

	err := r.st.Firestore().RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		removed = false
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			r.log.Warn("owning paper not found",
				zap.String("course", entry.CourseID),
				zap.String("category", entry.Subcollection),
				zap.String("paper", entry.PaperDocID))
			return nil
		}
		if err != nil {
			return err
		}

		urls := store.FileURLs(snap.Data())
		if urls == nil {
			r.log.Warn("owning paper has no fileUrls field",
				zap.String("paper", entry.PaperDocID))
			return nil
		}
		if !containsURL(urls, entry.DuplicateFileURL) {
			r.log.Info("url already absent from paper",
				zap.String("paper", entry.PaperDocID),
				zap.String("url", entry.DuplicateFileURL))
			return nil
		}

		if err := tx.Update(ref, []firestore.Update{
			{Path: "fileUrls", Value: firestore.ArrayRemove(entry.DuplicateFileURL)},
		}); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		r.log.Info("removed url from paper",
			zap.String("course", entry.CourseID),
			zap.String("category", entry.Subcollection),
			zap.String("paper", entry.PaperDocID),
			zap.String("url", entry.DuplicateFileURL))
	}
	return removed, nil
}

func containsURL(urls []string, target string) bool {
	for _, u := range urls {
		if u == target {
			return true
		}
	}
	return false
}

// writeRestorePoint records the current UTC time before any destructive
// work begins. Operators use it as the point-in-time-recovery anchor if a
// run has to be rolled back.
func (r *Remover) writeRestorePoint() error {
	now := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("Firestore restore point before deletion: %s\n", now)
	if err := os.WriteFile(r.restorePointFile, []byte(line), 0o644); err != nil {
		return fmt.Errorf("writing restore point: %w", err)
	}
	r.log.Info("restore point written",
		zap.String("file", r.restorePointFile), zap.String("time", now))
	return nil
}

// logRemoved appends a deleted entry ID to the side log for later audit.
func (r *Remover) logRemoved(id string) {
	f, err := os.OpenFile(r.removedLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.Warn("could not append to removed log", zap.Error(err))
		return
	}
	defer f.Close()
	fmt.Fprintln(f, id)
}
