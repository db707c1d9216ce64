package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"festreg/internal/domain"
	"festreg/internal/repository/docstore"
)

const (
	selectDocumentQuery = `SELECT data, version FROM documents WHERE collection = $1 AND id = $2`
	lockVersionQuery    = `SELECT version FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`
	insertDocumentQuery = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	upsertDocumentQuery = insertDocumentQuery + ` ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, version = nextval('document_version_seq'), updated_at = NOW()`
	mergeDocumentQuery  = insertDocumentQuery + ` ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data, version = nextval('document_version_seq'), updated_at = NOW()`
	deleteDocumentQuery = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	listDocumentsQuery  = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`
	arrayContainsQuery  = `SELECT id, data FROM documents WHERE collection = $1 AND data -> $2::text ? $3::text ORDER BY id`
)

// PostgreSQL error codes treated as optimistic concurrency conflicts.
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

type documentStore struct {
	DB          *sql.DB
	maxAttempts int
	logger      *slog.Logger
}

// NewDocumentStore returns a domain.DocumentStore backed by the documents table.
// Transaction bodies are retried up to maxAttempts times on conflict.
func NewDocumentStore(db *sql.DB, maxAttempts int, logger *slog.Logger) domain.DocumentStore {
	return &documentStore{DB: db, maxAttempts: maxAttempts, logger: logger}
}

func (r *documentStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Transaction) error) error {
	return docstore.RunWithRetry(ctx, r.maxAttempts, r.logger, func(ctx context.Context, _ int) error {
		tx := docstore.NewTx(func(ref domain.DocRef) ([]byte, int64, bool, error) {
			return r.load(ctx, ref)
		})
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return r.commit(ctx, tx)
	})
}

func (r *documentStore) load(ctx context.Context, ref domain.DocRef) ([]byte, int64, bool, error) {
	var data []byte
	var version int64
	err := r.DB.QueryRowContext(ctx, selectDocumentQuery, ref.Collection, ref.ID).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	return data, version, true, nil
}

// commit validates the read set under row locks and applies the buffered writes
// in a single SQL transaction.
func (r *documentStore) commit(ctx context.Context, tx *docstore.Tx) error {
	ops := tx.Ops()
	if len(ops) == 0 {
		return nil
	}
	sqlTx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := r.apply(ctx, sqlTx, tx); err != nil {
		_ = sqlTx.Rollback()
		return classify(err)
	}
	if err := sqlTx.Commit(); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func (r *documentStore) apply(ctx context.Context, sqlTx *sql.Tx, tx *docstore.Tx) error {
	for _, read := range tx.Reads() {
		var current int64
		err := sqlTx.QueryRowContext(ctx, lockVersionQuery, read.Ref.Collection, read.Ref.ID).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock %s: %w", read.Ref, err)
		}
		if current != read.Version {
			return fmt.Errorf("%s changed since read: %w", read.Ref, domain.ErrTransactionConflict)
		}
	}

	written := make(map[domain.DocRef]bool)
	for _, op := range tx.Ops() {
		var query string
		switch {
		case op.Kind == docstore.OpDelete:
			query = deleteDocumentQuery
		case tx.ObservedAbsent(op.Ref) && !written[op.Ref]:
			// Plain insert: a concurrent creator makes this fail with a unique violation.
			query = insertDocumentQuery
		case op.Kind == docstore.OpMerge:
			query = mergeDocumentQuery
		default:
			query = upsertDocumentQuery
		}
		args := []any{op.Ref.Collection, op.Ref.ID}
		if op.Kind != docstore.OpDelete {
			args = append(args, string(op.Data))
		}
		if _, err := sqlTx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("write %s: %w", op.Ref, err)
		}
		written[op.Ref] = true
	}
	return nil
}

// classify maps PostgreSQL concurrency failures onto domain.ErrTransactionConflict.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqSerializationFailure, pqDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, err.Error())
		}
	}
	return err
}

func (r *documentStore) Get(ctx context.Context, ref domain.DocRef, dest any) (bool, error) {
	data, _, found, err := r.load(ctx, ref)
	if err != nil || !found {
		return false, err
	}
	if dest == nil {
		return true, nil
	}
	if err := docstore.Decode(ref, data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *documentStore) List(ctx context.Context, collection string) ([]domain.Document, error) {
	return r.queryDocuments(ctx, listDocumentsQuery, collection)
}

func (r *documentStore) ArrayContains(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	return r.queryDocuments(ctx, arrayContainsQuery, collection, field, value)
}

func (r *documentStore) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, err
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
