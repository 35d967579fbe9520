package service

import (
	"context"
	"fmt"
	"time"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
	"github.com/expenseflow/approval-engine/pkg/utils"
	"github.com/google/uuid"
)

// SubmitInput carries the caller-supplied fields of a new claim
type SubmitInput struct {
	AmountCents int64
	Currency    string
	Description string
	RuleID      *string
}

// ClaimService creates claims and places them on their initial workflow step
type ClaimService interface {
	// Submit creates a claim for the submitter and initiates its workflow.
	// Initiation happens exactly once, inside the creation transaction.
	Submit(ctx context.Context, submitterID string, in SubmitInput) (*entity.Claim, error)

	// Get returns a claim together with its recorded action trail
	Get(ctx context.Context, id string) (*entity.Claim, []*entity.Action, error)

	// Initiate chooses the starting step for a freshly created claim. It
	// mutates claim.CurrentStep and must only be called once, at creation.
	Initiate(ctx context.Context, claim *entity.Claim) error
}

type claimServiceImpl struct {
	claims  port.ClaimRepository
	rules   port.RuleRepository
	actions port.ActionRepository
	users   port.UserRepository
	tx      port.TransactionManager
	logger  Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claims port.ClaimRepository,
	rules port.RuleRepository,
	actions port.ActionRepository,
	users port.UserRepository,
	tx port.TransactionManager,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claims:  claims,
		rules:   rules,
		actions: actions,
		users:   users,
		tx:      tx,
		logger:  logger,
	}
}

// Submit creates a claim and runs workflow initiation
func (s *claimServiceImpl) Submit(ctx context.Context, submitterID string, in SubmitInput) (*entity.Claim, error) {
	submitter, err := s.users.GetByID(ctx, submitterID)
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUserNotFound, submitterID)
	}

	if err := utils.ValidateAmountCents(in.AmountCents); err != nil {
		return nil, err
	}
	if err := utils.ValidateCurrency(in.Currency); err != nil {
		return nil, err
	}

	now := time.Now()
	claim := &entity.Claim{
		ID:          uuid.NewString(),
		CompanyID:   submitter.CompanyID,
		SubmitterID: submitter.ID,
		AmountCents: in.AmountCents,
		Currency:    in.Currency,
		Description: in.Description,
		RuleID:      in.RuleID,
		CurrentStep: 0,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Initiate(txCtx, claim); err != nil {
			return err
		}
		if err := s.claims.Create(txCtx, claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit claim", "error", err, "submitter_id", submitterID)
		return nil, err
	}

	s.logger.Info("Claim submitted",
		"claim_id", claim.ID,
		"submitter_id", submitter.ID,
		"current_step", claim.CurrentStep)
	return claim, nil
}

// Get retrieves a claim and its action trail
func (s *claimServiceImpl) Get(ctx context.Context, id string) (*entity.Claim, []*entity.Action, error) {
	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if claim == nil {
		return nil, nil, fmt.Errorf("%w: %s", workflow.ErrClaimNotFound, id)
	}

	actions, err := s.actions.ListByClaim(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return claim, actions, nil
}

// Initiate chooses the claim's starting step.
//
// Claims with no rule, or with a manager-led rule, take the default path:
// they start at the manager step when the submitter has an assigned manager
// and skip straight to the finance step when they do not. Claims with any
// other formal rule start at the rule's first step, after the rule's step
// list has been validated.
func (s *claimServiceImpl) Initiate(ctx context.Context, claim *entity.Claim) error {
	var rule *entity.Rule
	if claim.RuleID != nil {
		var err error
		rule, err = s.rules.GetByID(ctx, *claim.RuleID)
		if err != nil {
			return err
		}
		if rule == nil {
			return fmt.Errorf("%w: %s", workflow.ErrRuleNotFound, *claim.RuleID)
		}
	}

	if rule == nil || rule.IsManagerApprover {
		submitter, err := s.users.GetByID(ctx, claim.SubmitterID)
		if err != nil {
			return err
		}
		if submitter != nil && submitter.ManagerID != nil {
			claim.CurrentStep = workflow.StepManager
		} else {
			claim.CurrentStep = workflow.StepFinance
		}
		return nil
	}

	if len(rule.Steps) == 0 {
		return fmt.Errorf("%w: rule %s", workflow.ErrRuleHasNoSteps, rule.ID)
	}
	for _, step := range rule.Steps {
		if len(step.Approvers) == 0 {
			return fmt.Errorf("%w: rule %s step %d", workflow.ErrStepHasNoApprovers, rule.ID, step.Index)
		}
	}

	claim.CurrentStep = 0
	return nil
}
