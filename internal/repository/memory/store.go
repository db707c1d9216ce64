// Package memory provides an in-memory document store with the same optimistic
// transaction semantics as the Postgres store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"festreg/internal/domain"
	"festreg/internal/repository/docstore"
)

type record struct {
	data    []byte
	version int64
}

// Store is a domain.DocumentStore kept in process memory.
type Store struct {
	mu          sync.RWMutex
	docs        map[string]map[string]record
	seq         int64
	maxAttempts int
	logger      *slog.Logger

	// BeforeCommit, when set, runs after a transaction body returns and before
	// its read set is validated. An error aborts the attempt with that error.
	BeforeCommit func(attempt int) error
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAttempts sets how many times a conflicting transaction is run.
func WithMaxAttempts(n int) Option {
	return func(s *Store) { s.maxAttempts = n }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:        make(map[string]map[string]record),
		maxAttempts: docstore.DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Transaction) error) error {
	return docstore.RunWithRetry(ctx, s.maxAttempts, s.logger, func(ctx context.Context, attempt int) error {
		tx := docstore.NewTx(s.load)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if s.BeforeCommit != nil {
			if err := s.BeforeCommit(attempt); err != nil {
				return err
			}
		}
		return s.commit(tx)
	})
}

func (s *Store) load(ref domain.DocRef) ([]byte, int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return nil, 0, false, nil
	}
	return slices.Clone(rec.data), rec.version, true, nil
}

func (s *Store) commit(tx *docstore.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range tx.Reads() {
		current := s.docs[r.Ref.Collection][r.Ref.ID].version
		if current != r.Version {
			return fmt.Errorf("%s changed since read: %w", r.Ref, domain.ErrTransactionConflict)
		}
	}
	// Merges are resolved before anything is applied so a bad document leaves
	// the store untouched.
	staged := make([]record, len(tx.Ops()))
	pending := make(map[domain.DocRef][]byte)
	for i, op := range tx.Ops() {
		switch op.Kind {
		case docstore.OpSet:
			staged[i] = record{data: op.Data}
			pending[op.Ref] = op.Data
		case docstore.OpMerge:
			base, ok := pending[op.Ref]
			if !ok {
				base = s.docs[op.Ref.Collection][op.Ref.ID].data
			}
			merged, err := mergeJSON(base, op.Data)
			if err != nil {
				return fmt.Errorf("merge %s: %w", op.Ref, err)
			}
			staged[i] = record{data: merged}
			pending[op.Ref] = merged
		case docstore.OpDelete:
			pending[op.Ref] = nil
		}
	}
	for i, op := range tx.Ops() {
		coll := s.docs[op.Ref.Collection]
		if op.Kind == docstore.OpDelete {
			delete(coll, op.Ref.ID)
			continue
		}
		if coll == nil {
			coll = make(map[string]record)
			s.docs[op.Ref.Collection] = coll
		}
		s.seq++
		coll[op.Ref.ID] = record{data: staged[i].data, version: s.seq}
	}
	return nil
}

func mergeJSON(base, fields []byte) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &doc); err != nil {
			return nil, err
		}
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(fields, &patch); err != nil {
		return nil, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	return json.Marshal(doc)
}

func (s *Store) Get(_ context.Context, ref domain.DocRef, dest any) (bool, error) {
	data, _, found, _ := s.load(ref)
	if !found {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	if err := docstore.Decode(ref, data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) List(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(collection, func([]byte) bool { return true }), nil
}

func (s *Store) ArrayContains(_ context.Context, collection, field, value string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(collection, func(data []byte) bool {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return false
		}
		var values []string
		if err := json.Unmarshal(doc[field], &values); err != nil {
			return false
		}
		return slices.Contains(values, value)
	}), nil
}

func (s *Store) sorted(collection string, keep func([]byte) bool) []domain.Document {
	out := make([]domain.Document, 0)
	for id, rec := range s.docs[collection] {
		if keep(rec.data) {
			out = append(out, domain.Document{ID: id, Data: slices.Clone(rec.data)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Export returns every stored document keyed by "collection/id".
func (s *Store) Export() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage)
	for coll, docs := range s.docs {
		for id, rec := range docs {
			out[coll+"/"+id] = slices.Clone(rec.data)
		}
	}
	return out
}
