// Package docstore holds the optimistic transaction machinery shared by the
// document store implementations: a read-set/write-buffer transaction and the
// retry loop that re-runs a body on conflict.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"festreg/internal/domain"
)

// DefaultMaxAttempts is how many times a conflicting transaction body is run.
const DefaultMaxAttempts = 5

// OpKind is the kind of a buffered write.
type OpKind int

const (
	OpSet OpKind = iota
	OpMerge
	OpDelete
)

// WriteOp is one buffered write. Data is the full document for OpSet and a JSON
// object of top-level fields for OpMerge.
type WriteOp struct {
	Kind OpKind
	Ref  domain.DocRef
	Data []byte
}

// ReadEntry is a document observed by a transaction body. Version 0 means the
// document did not exist.
type ReadEntry struct {
	Ref     domain.DocRef
	Version int64
}

// Reader loads the current body and version of a document.
type Reader func(ref domain.DocRef) (data []byte, version int64, found bool, err error)

// Tx implements domain.Transaction by recording read versions and buffering writes.
type Tx struct {
	read  Reader
	reads map[domain.DocRef]int64
	ops   []WriteOp
}

// NewTx returns a transaction that loads documents through read.
func NewTx(read Reader) *Tx {
	return &Tx{read: read, reads: make(map[domain.DocRef]int64)}
}

func (t *Tx) Get(ref domain.DocRef, dest any) (bool, error) {
	if len(t.ops) > 0 {
		return false, fmt.Errorf("get %s: %w", ref, domain.ErrReadAfterWrite)
	}
	data, version, found, err := t.read(ref)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", ref, err)
	}
	if _, seen := t.reads[ref]; !seen {
		t.reads[ref] = version
	}
	if !found {
		return false, nil
	}
	if dest != nil {
		if err := Decode(ref, data, dest); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (t *Tx) Set(ref domain.DocRef, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	t.ops = append(t.ops, WriteOp{Kind: OpSet, Ref: ref, Data: raw})
	return nil
}

func (t *Tx) Merge(ref domain.DocRef, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	t.ops = append(t.ops, WriteOp{Kind: OpMerge, Ref: ref, Data: raw})
	return nil
}

func (t *Tx) Delete(ref domain.DocRef) error {
	t.ops = append(t.ops, WriteOp{Kind: OpDelete, Ref: ref})
	return nil
}

// Reads returns the observed documents ordered by path, so that committers lock
// rows in a stable order.
func (t *Tx) Reads() []ReadEntry {
	out := make([]ReadEntry, 0, len(t.reads))
	for ref, v := range t.reads {
		out = append(out, ReadEntry{Ref: ref, Version: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.String() < out[j].Ref.String() })
	return out
}

// Ops returns the buffered writes in the order they were issued.
func (t *Tx) Ops() []WriteOp { return t.ops }

// ObservedAbsent reports whether the body read ref and found nothing.
func (t *Tx) ObservedAbsent(ref domain.DocRef) bool {
	v, ok := t.reads[ref]
	return ok && v == 0
}

// Attempt runs one transaction attempt. Returning an error wrapping
// domain.ErrTransactionConflict makes RunWithRetry try again.
type Attempt func(ctx context.Context, attempt int) error

// RunWithRetry calls attempt until it succeeds, fails with a non-conflict error,
// or maxAttempts conflicts have occurred.
func RunWithRetry(ctx context.Context, maxAttempts int, logger *slog.Logger, attempt Attempt) error {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := attempt(ctx, i)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTransactionConflict) {
			return err
		}
		lastErr = err
		if logger != nil {
			logger.DebugContext(ctx, "transaction conflict, retrying", "attempt", i, "err", err)
		}
	}
	return fmt.Errorf("transaction aborted after %d attempts: %w", maxAttempts, lastErr)
}

// Decode unmarshals a stored document body into dest.
func Decode(ref domain.DocRef, data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}
	return nil
}
