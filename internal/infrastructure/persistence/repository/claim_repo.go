package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"go.uber.org/zap"
)

// ClaimRepository implements port.ClaimRepository
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

const claimColumns = `
	id, company_id, submitter_id, amount_cents, currency, description,
	rule_id, current_step, status, created_at, updated_at
`

// Create creates a new claim
func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	query := `
		INSERT INTO claims (
			id, company_id, submitter_id, amount_cents, currency, description,
			rule_id, current_step, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		claim.ID,
		claim.CompanyID,
		claim.SubmitterID,
		claim.AmountCents,
		claim.Currency,
		claim.Description,
		claim.RuleID,
		claim.CurrentStep,
		claim.Status.String(),
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim", zap.String("id", claim.ID), zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// GetByID retrieves a claim by ID; returns nil when the claim does not exist
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	query := `SELECT` + claimColumns + `FROM claims WHERE id = ?`

	claim, err := scanClaim(executorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get claim", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	return claim, nil
}

// UpdateWorkflowState persists the claim's step counter and status
func (r *ClaimRepository) UpdateWorkflowState(ctx context.Context, id string, currentStep int, status entity.ClaimStatus) error {
	query := `
		UPDATE claims
		SET current_step = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query, currentStep, status.String(), id)
	if err != nil {
		r.logger.Error("Failed to update workflow state",
			zap.String("id", id),
			zap.Int("current_step", currentStep),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update workflow state: %w", err)
	}

	return nil
}

// ListPendingByCompany retrieves all pending claims for a company
func (r *ClaimRepository) ListPendingByCompany(ctx context.Context, companyID string) ([]*entity.Claim, error) {
	query := `SELECT` + claimColumns + `
		FROM claims
		WHERE company_id = ? AND status = ?
		ORDER BY created_at ASC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, companyID, entity.StatusPending.String())
	if err != nil {
		r.logger.Error("Failed to list pending claims", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list pending claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*entity.Claim, error) {
	var claim entity.Claim
	var ruleID sql.NullString
	var status string

	err := row.Scan(
		&claim.ID,
		&claim.CompanyID,
		&claim.SubmitterID,
		&claim.AmountCents,
		&claim.Currency,
		&claim.Description,
		&ruleID,
		&claim.CurrentStep,
		&status,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.Status = entity.ClaimStatus(status)
	if ruleID.Valid {
		claim.RuleID = &ruleID.String
	}
	return &claim, nil
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
