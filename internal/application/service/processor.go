package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expenseflow/approval-engine/internal/application/port"
	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
	"github.com/google/uuid"
)

// ApprovalProcessor applies one approver decision to a pending claim. It is
// the workflow's complete transition function: every path either terminates
// the claim or advances it exactly one step.
type ApprovalProcessor interface {
	Process(ctx context.Context, claimID, actorID string, decision entity.Decision, comment string) (*entity.Claim, error)
}

type approvalProcessor struct {
	claims    port.ClaimRepository
	rules     port.RuleRepository
	actions   port.ActionRepository
	tx        port.TransactionManager
	evaluator *ConditionalEvaluator
	observer  workflow.TransitionObserver
	locks     *claimLocks
	logger    Logger
}

// NewApprovalProcessor creates a new ApprovalProcessor
func NewApprovalProcessor(
	claims port.ClaimRepository,
	rules port.RuleRepository,
	actions port.ActionRepository,
	tx port.TransactionManager,
	evaluator *ConditionalEvaluator,
	observer workflow.TransitionObserver,
	logger Logger,
) ApprovalProcessor {
	return &approvalProcessor{
		claims:    claims,
		rules:     rules,
		actions:   actions,
		tx:        tx,
		evaluator: evaluator,
		observer:  observer,
		locks:     newClaimLocks(),
		logger:    logger,
	}
}

// Process records the actor's decision and transitions the claim.
//
// Validation happens before anything is written: a failed call leaves no
// partial state. The ledger append and the step/status write share one
// transaction, and the whole read-decide-write is serialized per claim, so
// concurrent approvers can never double-advance a step or produce two
// terminal transitions.
func (p *approvalProcessor) Process(ctx context.Context, claimID, actorID string, decision entity.Decision, comment string) (*entity.Claim, error) {
	lock := p.locks.get(claimID)
	lock.Lock()
	defer lock.Unlock()

	var (
		updated    *entity.Claim
		transition workflow.Transition
	)

	err := p.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		claim, err := p.claims.GetByID(txCtx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return fmt.Errorf("%w: %s", workflow.ErrClaimNotFound, claimID)
		}
		if claim.Status.IsTerminal() {
			return fmt.Errorf("%w: claim %s is %s", workflow.ErrClaimNotPending, claim.ID, claim.Status)
		}
		if !decision.IsValid() {
			return fmt.Errorf("%w: %q", workflow.ErrInvalidDecision, decision)
		}
		if decision == entity.DecisionRejected && strings.TrimSpace(comment) == "" {
			return fmt.Errorf("%w: claim %s", workflow.ErrCommentRequired, claim.ID)
		}

		action := &entity.Action{
			ID:        uuid.NewString(),
			ClaimID:   claim.ID,
			ActorID:   actorID,
			Step:      claim.CurrentStep,
			Decision:  decision,
			Comment:   comment,
			CreatedAt: time.Now(),
		}
		if err := p.actions.Create(txCtx, action); err != nil {
			return fmt.Errorf("record action: %w", err)
		}

		fromStep, fromStatus := claim.CurrentStep, claim.Status

		if decision == entity.DecisionRejected {
			claim.Status = entity.StatusRejected
		} else if err := p.advance(txCtx, claim, actorID); err != nil {
			return err
		}

		claim.UpdatedAt = action.CreatedAt
		if err := p.claims.UpdateWorkflowState(txCtx, claim.ID, claim.CurrentStep, claim.Status); err != nil {
			return fmt.Errorf("update workflow state: %w", err)
		}

		transition = workflow.Transition{
			ClaimID:    claim.ID,
			ActorID:    actorID,
			Decision:   decision,
			FromStep:   fromStep,
			FromStatus: fromStatus,
			ToStep:     claim.CurrentStep,
			ToStatus:   claim.Status,
			At:         action.CreatedAt,
		}
		updated = claim
		return nil
	})
	if err != nil {
		p.logger.Error("Failed to process approval action",
			"error", err, "claim_id", claimID, "actor_id", actorID)
		return nil, err
	}

	p.observer.ObserveTransition(ctx, transition)
	p.logger.Info("Approval action processed",
		"claim_id", updated.ID,
		"actor_id", actorID,
		"decision", string(decision),
		"current_step", updated.CurrentStep,
		"status", updated.Status.String())
	return updated, nil
}

// advance moves an approved claim forward: one step on its path, or straight
// to APPROVED when the path is exhausted or an auto-approval condition fires.
func (p *approvalProcessor) advance(ctx context.Context, claim *entity.Claim, actorID string) error {
	var rule *entity.Rule
	if claim.RuleID != nil {
		var err error
		rule, err = p.rules.GetByID(ctx, *claim.RuleID)
		if err != nil {
			return err
		}
		if rule == nil {
			return fmt.Errorf("%w: %s", workflow.ErrRuleNotFound, *claim.RuleID)
		}
	}

	state := workflow.StateOf(claim, rule)
	if state.Kind == workflow.PathDefault {
		switch claim.CurrentStep {
		case workflow.StepManager:
			claim.CurrentStep = workflow.StepFinance
		case workflow.StepFinance:
			claim.CurrentStep = workflow.StepDirector
		default:
			// Director approved, or the step counter is outside the known
			// path; either way there is nothing left to route to.
			claim.Status = entity.StatusApproved
		}
		return nil
	}

	if rule.Type.IsConditional() {
		auto, err := p.evaluator.ShouldAutoApprove(ctx, claim, rule, actorID)
		if err != nil {
			return err
		}
		if auto {
			claim.Status = entity.StatusApproved
			return nil
		}
	}

	next := claim.CurrentStep + 1
	if next >= len(rule.Steps) {
		claim.Status = entity.StatusApproved
	} else {
		claim.CurrentStep = next
	}
	return nil
}
