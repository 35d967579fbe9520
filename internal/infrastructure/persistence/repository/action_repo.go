package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"go.uber.org/zap"
)

// ActionRepository implements port.ActionRepository. The ledger is
// append-only: there is no update or delete.
type ActionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *sql.DB, logger *zap.Logger) port.ActionRepository {
	return &ActionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an action to the ledger
func (r *ActionRepository) Create(ctx context.Context, action *entity.Action) error {
	query := `
		INSERT INTO approval_actions (
			id, claim_id, actor_id, step, decision, comment, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		action.ID,
		action.ClaimID,
		action.ActorID,
		action.Step,
		string(action.Decision),
		action.Comment,
		action.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create action",
			zap.String("claim_id", action.ClaimID),
			zap.String("actor_id", action.ActorID),
			zap.Error(err))
		return fmt.Errorf("failed to create action: %w", err)
	}

	return nil
}

// ListByClaim retrieves all actions for a claim in recording order
func (r *ActionRepository) ListByClaim(ctx context.Context, claimID string) ([]*entity.Action, error) {
	query := `
		SELECT id, claim_id, actor_id, step, decision, comment, created_at
		FROM approval_actions
		WHERE claim_id = ?
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, claimID)
}

// ListByClaimStep retrieves the actions recorded at one step of a claim
func (r *ActionRepository) ListByClaimStep(ctx context.Context, claimID string, step int) ([]*entity.Action, error) {
	query := `
		SELECT id, claim_id, actor_id, step, decision, comment, created_at
		FROM approval_actions
		WHERE claim_id = ? AND step = ?
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, claimID, step)
}

func (r *ActionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Action, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list actions", zap.Error(err))
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*entity.Action
	for rows.Next() {
		var action entity.Action
		var decision string

		err := rows.Scan(
			&action.ID,
			&action.ClaimID,
			&action.ActorID,
			&action.Step,
			&decision,
			&action.Comment,
			&action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}

		action.Decision = entity.Decision(decision)
		actions = append(actions, &action)
	}

	return actions, rows.Err()
}

// Verify interface compliance
var _ port.ActionRepository = (*ActionRepository)(nil)
