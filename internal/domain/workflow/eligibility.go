package workflow

import "github.com/expenseflow/approval-engine/internal/domain/entity"

// IsEligible reports whether the user is a valid next actor for the claim in
// its current state. The same function backs both the pending-work listing
// and the action endpoint's upstream check, so the two can never disagree.
//
// The historical fallback that surfaced a claim to any manager-role user who
// was the submitter's direct manager, regardless of the claim's actual step,
// is deliberately narrowed here: manager visibility exists only at the
// default path's manager step.
func IsEligible(user, submitter *entity.User, claim *entity.Claim, rule *entity.Rule) bool {
	if claim.Status != entity.StatusPending {
		return false
	}
	if user.CompanyID != claim.CompanyID {
		return false
	}

	state := StateOf(claim, rule)
	switch state.Kind {
	case PathDefault:
		switch state.Step {
		case StepManager:
			return submitter != nil && submitter.ManagerID != nil && *submitter.ManagerID == user.ID
		case StepFinance:
			return user.Role == entity.RoleFinance
		case StepDirector:
			return user.Role == entity.RoleDirector
		}
		return false
	case PathFormalRule:
		step := state.CurrentStepOf()
		if step == nil {
			return false
		}
		return step.HasApprover(user.ID)
	}
	return false
}
