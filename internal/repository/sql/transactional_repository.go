package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iyhunko/product-catalog/internal/repository"
)

var _ repository.Transactor = (*TransactionalRepository)(nil)

// TransactionalRepository runs product and event writes in a single transaction.
type TransactionalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTransactionalRepository creates a new TransactionalRepository
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db, now: time.Now}
}

// WithinTransaction executes fn with repositories bound to one transaction.
// Cancelling ctx aborts the transaction.
func (tr *TransactionalRepository) WithinTransaction(ctx context.Context, fn func(products repository.ProductRepository, events repository.EventRepository) error) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	productRepo := &ProductRepository{db: tr.db, txn: tx, now: tr.now}
	eventRepo := &EventRepository{db: tr.db, txn: tx, now: tr.now}

	if err := fn(productRepo, eventRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
