package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"go.uber.org/zap"
)

// RuleRepository implements port.RuleRepository. Steps are stored with a
// 1-based sequence_order; this repository is the only place that numbering
// exists. Loaded steps carry the 0-based Step.Index instead.
type RuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *sql.DB, logger *zap.Logger) port.RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a rule with its steps and approvers; returns nil when
// the rule does not exist
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*entity.Rule, error) {
	query := `
		SELECT id, company_id, name, rule_type, percentage_threshold, is_manager_approver
		FROM approval_rules
		WHERE id = ?
	`

	var rule entity.Rule
	var ruleType string
	var threshold sql.NullFloat64

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&rule.ID,
		&rule.CompanyID,
		&rule.Name,
		&ruleType,
		&threshold,
		&rule.IsManagerApprover,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get rule", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	rule.Type = entity.RuleType(ruleType)
	if threshold.Valid {
		rule.PercentageThreshold = &threshold.Float64
	}

	steps, err := r.loadSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.Steps = steps

	return &rule, nil
}

// loadSteps loads the rule's steps ordered by sequence_order and rewrites
// each step's Index to its 0-based position
func (r *RuleRepository) loadSteps(ctx context.Context, ruleID string) ([]entity.Step, error) {
	query := `
		SELECT id FROM approval_steps
		WHERE rule_id = ?
		ORDER BY sequence_order ASC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, ruleID)
	if err != nil {
		r.logger.Error("Failed to load rule steps", zap.String("rule_id", ruleID), zap.Error(err))
		return nil, fmt.Errorf("failed to load rule steps: %w", err)
	}
	defer rows.Close()

	var steps []entity.Step
	for rows.Next() {
		var step entity.Step
		if err := rows.Scan(&step.ID); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		step.Index = len(steps)
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range steps {
		approvers, err := r.loadApprovers(ctx, steps[i].ID)
		if err != nil {
			return nil, err
		}
		steps[i].Approvers = approvers
	}

	return steps, nil
}

func (r *RuleRepository) loadApprovers(ctx context.Context, stepID string) ([]entity.Approver, error) {
	query := `
		SELECT user_id, is_specific_approver
		FROM step_approvers
		WHERE step_id = ?
		ORDER BY user_id ASC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, stepID)
	if err != nil {
		r.logger.Error("Failed to load step approvers", zap.String("step_id", stepID), zap.Error(err))
		return nil, fmt.Errorf("failed to load step approvers: %w", err)
	}
	defer rows.Close()

	var approvers []entity.Approver
	for rows.Next() {
		var a entity.Approver
		if err := rows.Scan(&a.UserID, &a.IsSpecificApprover); err != nil {
			return nil, fmt.Errorf("failed to scan approver: %w", err)
		}
		approvers = append(approvers, a)
	}

	return approvers, rows.Err()
}

// Verify interface compliance
var _ port.RuleRepository = (*RuleRepository)(nil)
