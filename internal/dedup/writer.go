package dedup

import (
	"context"

	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

// Writer persists scan results: a hash-ledger entry for every processed
// file and a duplicate entry for every exact or similar match. The two
// streams batch independently.
type Writer struct {
	st        *store.Client
	batchSize int
}

// WriteStats summarizes one persistence pass.
type WriteStats struct {
	HashesStored int
	Duplicates   int
	Errored      int
}

func NewWriter(st *store.Client, batchSize int) *Writer {
	return &Writer{st: st, batchSize: batchSize}
}

// Write appends ledger and duplicate documents for all successful results.
// Errored results are counted and passed over. A commit failure aborts the
// pass; batches committed before it stay durable.
func (w *Writer) Write(ctx context.Context, results []Result) (WriteStats, error) {
	var stats WriteStats
	hashes := store.NewBatchWriter(w.st, w.batchSize)
	dups := store.NewBatchWriter(w.st, w.batchSize)

	for _, res := range results {
		if res.Err != nil {
			stats.Errored++
			continue
		}

		if err := hashes.Set(ctx, w.st.FileHashes().NewDoc(), hashEntry(res)); err != nil {
			return stats, err
		}
		stats.HashesStored++

		entry := duplicateEntry(res)
		if entry == nil {
			continue
		}
		if err := dups.Set(ctx, w.st.Duplicates().NewDoc(), entry); err != nil {
			return stats, err
		}
		stats.Duplicates++
	}

	if err := hashes.Flush(ctx); err != nil {
		return stats, err
	}
	if err := dups.Flush(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// hashEntry flattens the owning paper's metadata into the ledger document
// so each entry is actionable without re-reading the catalog.
func hashEntry(res Result) map[string]interface{} {
	doc := make(map[string]interface{}, len(res.PaperData)+6)
	for k, v := range res.PaperData {
		doc[k] = v
	}
	doc["fileUrl"] = res.FileURL
	doc["fileHash"] = res.FileHash
	doc["pHash"] = fingerprintString(res)
	doc["courseId"] = res.CourseID
	doc["subcollection"] = res.Category
	doc["paperDocId"] = res.PaperDocID
	return doc
}

// duplicateEntry builds the duplicates document for a result, or nil when
// the file matched nothing. An exact match is reported in preference to a
// similar one.
func duplicateEntry(res Result) map[string]interface{} {
	var doc map[string]interface{}
	switch {
	case res.ExactMatch != nil:
		doc = baseDuplicate(res)
		doc["type"] = "exact"
		doc["matchedFileUrl"] = res.ExactMatch.URL
		doc["fileHash"] = res.FileHash
		doc["matchedPaperDocId"] = res.ExactMatch.PaperDocID
	case res.SimilarMatch != nil:
		doc = baseDuplicate(res)
		doc["type"] = "similar"
		doc["matchedFileUrl"] = res.SimilarMatch.URL
		doc["pHash"] = fingerprintString(res)
		doc["similarToPHash"] = res.SimilarMatch.Fingerprint.String()
		doc["matchedPaperDocId"] = res.SimilarMatch.PaperDocID
	default:
		return nil
	}
	return doc
}

func baseDuplicate(res Result) map[string]interface{} {
	doc := make(map[string]interface{}, len(res.PaperData)+8)
	for k, v := range res.PaperData {
		doc[k] = v
	}
	doc["duplicateFileUrl"] = res.FileURL
	doc["courseId"] = res.CourseID
	doc["subcollection"] = res.Category
	doc["paperDocId"] = res.PaperDocID
	return doc
}

func fingerprintString(res Result) interface{} {
	if res.Fingerprint == nil {
		return nil
	}
	return res.Fingerprint.String()
}
