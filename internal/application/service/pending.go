package service

import (
	"context"
	"fmt"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
)

// PendingResolver answers "which claims await action from this user" by
// replaying the same eligibility rules the action endpoint enforces
type PendingResolver interface {
	PendingFor(ctx context.Context, userID string) ([]*entity.Claim, error)
}

type pendingResolver struct {
	claims  port.ClaimRepository
	rules   port.RuleRepository
	actions port.ActionRepository
	users   port.UserRepository
	logger  Logger
}

// NewPendingResolver creates a new PendingResolver
func NewPendingResolver(
	claims port.ClaimRepository,
	rules port.RuleRepository,
	actions port.ActionRepository,
	users port.UserRepository,
	logger Logger,
) PendingResolver {
	return &pendingResolver{
		claims:  claims,
		rules:   rules,
		actions: actions,
		users:   users,
		logger:  logger,
	}
}

// PendingFor lists pending claims in the user's company where the user is a
// valid next actor and has not already approved the current step. A claim
// whose rule cannot be loaded is skipped rather than failing the whole
// listing.
func (r *pendingResolver) PendingFor(ctx context.Context, userID string) ([]*entity.Claim, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrUserNotFound, userID)
	}

	candidates, err := r.claims.ListPendingByCompany(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}

	pending := make([]*entity.Claim, 0, len(candidates))
	for _, claim := range candidates {
		var rule *entity.Rule
		if claim.RuleID != nil {
			rule, err = r.rules.GetByID(ctx, *claim.RuleID)
			if err != nil {
				return nil, err
			}
			if rule == nil {
				r.logger.Error("Claim references missing rule",
					"claim_id", claim.ID, "rule_id", *claim.RuleID)
				continue
			}
		}

		submitter, err := r.users.GetByID(ctx, claim.SubmitterID)
		if err != nil {
			return nil, err
		}

		if !workflow.IsEligible(user, submitter, claim, rule) {
			continue
		}

		acted, err := r.alreadyApproved(ctx, claim, userID)
		if err != nil {
			return nil, err
		}
		if acted {
			continue
		}

		pending = append(pending, claim)
	}
	return pending, nil
}

// alreadyApproved reports whether the user has a recorded approval at the
// claim's current step. The ledger, not the claim, decides this.
func (r *pendingResolver) alreadyApproved(ctx context.Context, claim *entity.Claim, userID string) (bool, error) {
	actions, err := r.actions.ListByClaimStep(ctx, claim.ID, claim.CurrentStep)
	if err != nil {
		return false, err
	}
	for _, a := range actions {
		if a.ActorID == userID && a.Decision == entity.DecisionApproved {
			return true, nil
		}
	}
	return false, nil
}
