package port

import (
	"context"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
)

// ClaimRepository persists expense claims
type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error
	GetByID(ctx context.Context, id string) (*entity.Claim, error)
	UpdateWorkflowState(ctx context.Context, id string, currentStep int, status entity.ClaimStatus) error
	ListPendingByCompany(ctx context.Context, companyID string) ([]*entity.Claim, error)
}

// RuleRepository reads approval rule configurations. Implementations load
// steps sorted by their stored sequence order and assign the 0-based
// Step.Index, so callers never see the storage numbering.
type RuleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Rule, error)
}

// ActionRepository appends to and reads the immutable action ledger
type ActionRepository interface {
	Create(ctx context.Context, action *entity.Action) error
	ListByClaim(ctx context.Context, claimID string) ([]*entity.Action, error)
	ListByClaimStep(ctx context.Context, claimID string, step int) ([]*entity.Action, error)
}

// UserRepository reads the company roster
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// TransactionManager executes a function within a storage transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
