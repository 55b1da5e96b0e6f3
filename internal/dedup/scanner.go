package dedup

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

// Scanner enumerates every file URL under every course and category and
// fans the work out to a bounded pool of processors.
type Scanner struct {
	st      *store.Client
	proc    *Processor
	workers int
	log     *zap.Logger
}

func NewScanner(st *store.Client, proc *Processor, workers int, log *zap.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{st: st, proc: proc, workers: workers, log: log}
}

// Run builds the full work list up front — the catalog is small enough
// that streaming is not worth the complexity — then processes it with at
// most `workers` downloads in flight. Per-file failures land in the
// results as error entries; only enumerating the catalog itself fails the
// run.
func (s *Scanner) Run(ctx context.Context) ([]Result, error) {
	units, err := s.enumerate(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("queued files for processing", zap.Int("count", len(units)))

	results := make([]Result, len(units))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, u := range units {
		i, u := i, u // per-iteration copies; go directive predates Go 1.22 loop scoping
		g.Go(func() error {
			res := s.proc.Process(ctx, u)
			if res.Err != nil {
				s.log.Error("failed to process file",
					zap.String("url", u.FileURL), zap.Error(res.Err))
			} else {
				s.log.Info("processed file", zap.String("url", u.FileURL))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() // workers report failures through their Result, never an error

	return results, nil
}

// unitsForPaper expands one paper document into work units, skipping the
// placeholder sentinel.
func unitsForPaper(courseID, category, paperID string, data map[string]interface{}) []Unit {
	if paperID == store.PlaceholderID {
		return nil
	}
	urls := store.FileURLs(data)
	units := make([]Unit, 0, len(urls))
	for _, url := range urls {
		units = append(units, Unit{
			FileURL:    url,
			CourseID:   courseID,
			Category:   category,
			PaperDocID: paperID,
			PaperData:  data,
		})
	}
	return units
}

func (s *Scanner) enumerate(ctx context.Context) ([]Unit, error) {
	var units []Unit

	courses := s.st.Courses().Documents(ctx)
	defer courses.Stop()
	for {
		course, err := courses.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing courses: %w", err)
		}
		courseID := course.Ref.ID
		s.log.Info("enumerating course", zap.String("course", courseID))

		for _, category := range store.Categories {
			papers := s.st.Papers(courseID, category).Documents(ctx)
			for {
				paper, err := papers.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					// One unreadable subcollection should not sink the
					// whole scan; log and move on to the next category.
					s.log.Error("listing papers failed",
						zap.String("course", courseID),
						zap.String("category", category),
						zap.Error(err))
					break
				}
				units = append(units, unitsForPaper(courseID, category, paper.Ref.ID, paper.Data())...)
			}
			papers.Stop()
		}
	}
	return units, nil
}
