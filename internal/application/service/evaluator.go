package service

import (
	"context"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
)

// ConditionalEvaluator decides whether a CONDITIONAL or COMBINED rule's
// current step already satisfies an auto-approval condition
type ConditionalEvaluator struct {
	actions port.ActionRepository
	logger  Logger
}

// NewConditionalEvaluator creates a new ConditionalEvaluator
func NewConditionalEvaluator(actions port.ActionRepository, logger Logger) *ConditionalEvaluator {
	return &ConditionalEvaluator{actions: actions, logger: logger}
}

// ShouldAutoApprove is called immediately after an approval has been recorded
// for actorID at the claim's current step. Either condition suffices:
//
//   - percentage quorum: the share of distinct approvers with a recorded
//     approval at this step, over the step's named approver count, meets the
//     rule's threshold
//   - key approver: the step's flagged approver is the one who just approved
//
// A step that cannot be located, or names no approvers, never auto-approves;
// the claim then advances sequentially instead.
func (e *ConditionalEvaluator) ShouldAutoApprove(ctx context.Context, claim *entity.Claim, rule *entity.Rule, actorID string) (bool, error) {
	step := rule.StepAt(claim.CurrentStep)
	if step == nil || len(step.Approvers) == 0 {
		return false, nil
	}

	actions, err := e.actions.ListByClaimStep(ctx, claim.ID, claim.CurrentStep)
	if err != nil {
		return false, err
	}

	approvedBy := make(map[string]bool)
	for _, a := range actions {
		if a.Decision == entity.DecisionApproved {
			approvedBy[a.ActorID] = true
		}
	}

	if rule.PercentageThreshold != nil {
		ratio := float64(len(approvedBy)) / float64(len(step.Approvers)) * 100
		if ratio >= *rule.PercentageThreshold {
			e.logger.Info("Percentage quorum met",
				"claim_id", claim.ID,
				"step", claim.CurrentStep,
				"approved", len(approvedBy),
				"approvers", len(step.Approvers),
				"threshold", *rule.PercentageThreshold)
			return true, nil
		}
	}

	if key := step.KeyApprover(); key != nil && key.UserID == actorID && approvedBy[actorID] {
		e.logger.Info("Key approver approved",
			"claim_id", claim.ID,
			"step", claim.CurrentStep,
			"approver_id", actorID)
		return true, nil
	}

	return false, nil
}
