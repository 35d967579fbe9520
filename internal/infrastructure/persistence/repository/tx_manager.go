package repository

import (
	"context"
	"database/sql"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/pkg/database"
)

// TxManager implements port.TransactionManager over the sqlite connection.
// The open transaction travels in the context so every repository call made
// inside the function joins it.
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction executes fn inside a single transaction
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// Verify interface compliance
var _ port.TransactionManager = (*TxManager)(nil)
