// Package similarity holds the in-memory fingerprint index consulted
// during a duplicate scan.
package similarity

import "github.com/LeeNgari/FirebaseScripts/internal/hashutil"

// Record ties a stored fingerprint to the file it was first seen on.
type Record struct {
	Fingerprint *hashutil.Fingerprint
	URL         string
	PaperDocID  string
}

// Index is an append-only list of fingerprints seen during a scan.
// Lookups walk records in insertion order and return the first one within
// the threshold, so a rerun over the same input order reproduces the same
// matches. The index itself is not synchronized; the scan serializes
// access around its lookup-then-insert sequence.
type Index struct {
	records []Record
}

func NewIndex() *Index { return &Index{} }

// Add appends unconditionally. Callers only add fingerprints that matched
// nothing already stored.
func (ix *Index) Add(fp *hashutil.Fingerprint, url, paperDocID string) {
	ix.records = append(ix.records, Record{Fingerprint: fp, URL: url, PaperDocID: paperDocID})
}

// FindSimilar returns the earliest-inserted record within threshold
// Hamming distance of fp, or nil when nothing is close enough.
func (ix *Index) FindSimilar(fp *hashutil.Fingerprint, threshold int) *Record {
	for i := range ix.records {
		if ix.records[i].Fingerprint.Distance(fp) <= threshold {
			rec := ix.records[i]
			return &rec
		}
	}
	return nil
}

// Len reports how many fingerprints are stored.
func (ix *Index) Len() int { return len(ix.records) }
