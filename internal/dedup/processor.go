// Package dedup implements the two-phase duplicate workflow: scan every
// paper file and record exact/similar duplicates, then remove confirmed
// duplicates from their owning papers.
package dedup

import (
	"context"
	"sync"

	"github.com/LeeNgari/FirebaseScripts/internal/fetch"
	"github.com/LeeNgari/FirebaseScripts/internal/hashutil"
	"github.com/LeeNgari/FirebaseScripts/internal/similarity"
)

// Unit is one file queued for processing together with the keys of the
// paper that owns it. PaperData is the raw paper document; its fields are
// flattened into ledger entries so they stay actionable on their own.
type Unit struct {
	FileURL    string
	CourseID   string
	Category   string
	PaperDocID string
	PaperData  map[string]interface{}
}

// ExactRef records where a content digest was first seen.
type ExactRef struct {
	URL        string
	PaperDocID string
}

// Result is the outcome for a single file. Err is set for fetch failures;
// the scan carries on past them and reports them in aggregate.
type Result struct {
	Unit
	FileHash     string
	Fingerprint  *hashutil.Fingerprint
	ExactMatch   *ExactRef
	SimilarMatch *similarity.Record
	Err          error
}

// SharedState is the cross-worker comparison state for one scan: the
// digest map for exact duplicates and the fingerprint index for similar
// images. One mutex guards the whole lookup-then-insert sequence so two
// workers downloading the same new content cannot both claim first sight
// of it.
type SharedState struct {
	mu    sync.Mutex
	exact map[string]ExactRef
	index *similarity.Index
}

func NewSharedState() *SharedState {
	return &SharedState{
		exact: make(map[string]ExactRef),
		index: similarity.NewIndex(),
	}
}

// Processor turns one Unit into a Result.
type Processor struct {
	fetcher   *fetch.Fetcher
	state     *SharedState
	threshold int
}

func NewProcessor(fetcher *fetch.Fetcher, state *SharedState, threshold int) *Processor {
	return &Processor{fetcher: fetcher, state: state, threshold: threshold}
}

// Process downloads and hashes one file, classifies it against everything
// seen so far, and claims its digest and fingerprint when nothing matched.
// An exact match is definitive, but the fingerprint is still computed and
// looked up so a later file can match this one perceptually.
func (p *Processor) Process(ctx context.Context, u Unit) Result {
	res := Result{Unit: u}

	data, contentType, err := p.fetcher.Fetch(ctx, u.FileURL)
	if err != nil {
		res.Err = err
		return res
	}

	res.FileHash = hashutil.ContentDigest(data)
	res.Fingerprint = hashutil.PerceptualFingerprint(data, contentType)

	p.state.mu.Lock()
	defer p.state.mu.Unlock()

	if ref, ok := p.state.exact[res.FileHash]; ok {
		res.ExactMatch = &ref
	}
	if res.Fingerprint != nil {
		res.SimilarMatch = p.state.index.FindSimilar(res.Fingerprint, p.threshold)
	}

	if res.ExactMatch == nil {
		p.state.exact[res.FileHash] = ExactRef{URL: u.FileURL, PaperDocID: u.PaperDocID}
	}
	if res.Fingerprint != nil && res.SimilarMatch == nil {
		p.state.index.Add(res.Fingerprint, u.FileURL, u.PaperDocID)
	}
	return res
}
