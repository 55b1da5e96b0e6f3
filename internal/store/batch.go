package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
)

// MaxBatchOps is the hard ceiling Firestore enforces on operations per
// atomic commit. Caps above it are clamped.
const MaxBatchOps = 500

type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

type op struct {
	kind    opKind
	ref     *firestore.DocumentRef
	data    interface{}
	updates []firestore.Update
}

// BatchWriter groups writes into commits capped at a maximum operation
// count. A batch is committed as soon as it reaches the cap; Flush commits
// any partial trailing batch. There is no atomicity across commits: a
// failed commit leaves earlier commits durable.
type BatchWriter struct {
	commitFn func(ctx context.Context, ops []op) error
	cap      int
	pause    time.Duration
	pending  []op
	ops      int
	commits  int
}

// NewBatchWriter builds a writer committing to client batches of at most
// `capacity` operations.
func NewBatchWriter(c *Client, capacity int) *BatchWriter {
	if capacity <= 0 || capacity > MaxBatchOps {
		capacity = MaxBatchOps
	}
	fs := c.fs
	return &BatchWriter{
		cap: capacity,
		commitFn: func(ctx context.Context, ops []op) error {
			b := fs.Batch()
			for _, o := range ops {
				switch o.kind {
				case opSet:
					b.Set(o.ref, o.data)
				case opUpdate:
					b.Update(o.ref, o.updates)
				case opDelete:
					b.Delete(o.ref)
				}
			}
			_, err := b.Commit(ctx)
			return err
		},
	}
}

// WithPause makes the writer sleep after every commit, to stay under
// sustained write limits during bulk copies.
func (w *BatchWriter) WithPause(d time.Duration) *BatchWriter {
	w.pause = d
	return w
}

// Set queues a document set, committing if the batch is full.
func (w *BatchWriter) Set(ctx context.Context, ref *firestore.DocumentRef, data interface{}) error {
	return w.add(ctx, op{kind: opSet, ref: ref, data: data})
}

// Update queues a partial document update.
func (w *BatchWriter) Update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	return w.add(ctx, op{kind: opUpdate, ref: ref, updates: updates})
}

// Delete queues a document deletion.
func (w *BatchWriter) Delete(ctx context.Context, ref *firestore.DocumentRef) error {
	return w.add(ctx, op{kind: opDelete, ref: ref})
}

func (w *BatchWriter) add(ctx context.Context, o op) error {
	w.pending = append(w.pending, o)
	w.ops++
	if len(w.pending) >= w.cap {
		return w.commit(ctx)
	}
	return nil
}

func (w *BatchWriter) commit(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.commitFn(ctx, w.pending); err != nil {
		return fmt.Errorf("committing batch of %d ops: %w", len(w.pending), err)
	}
	w.commits++
	w.pending = w.pending[:0]
	if w.pause > 0 {
		time.Sleep(w.pause)
	}
	return nil
}

// Flush commits any partial trailing batch.
func (w *BatchWriter) Flush(ctx context.Context) error { return w.commit(ctx) }

// Ops reports the total operations queued so far.
func (w *BatchWriter) Ops() int { return w.ops }

// Commits reports how many batches have been committed.
func (w *BatchWriter) Commits() int { return w.commits }
