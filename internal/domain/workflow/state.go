package workflow

import "github.com/expenseflow/approval-engine/internal/domain/entity"

// Default-path step numbers. Claims without a formal rule, and claims whose
// rule is manager-led, walk manager -> finance -> director.
const (
	StepManager  = 0
	StepFinance  = 1
	StepDirector = 2
)

// PathKind tags which routing a pending claim follows
type PathKind string

const (
	PathDefault    PathKind = "DEFAULT"
	PathFormalRule PathKind = "FORMAL_RULE"
)

// State is the explicit workflow state of a pending claim: which path it is
// on and which step it currently sits at. Rule is nil on the default path.
type State struct {
	Kind PathKind
	Step int
	Rule *entity.Rule
}

// StateOf derives the workflow state for a claim. A claim with no rule, or
// with a manager-led rule, is on the default path; otherwise the rule's own
// step list governs.
func StateOf(claim *entity.Claim, rule *entity.Rule) State {
	if rule == nil || rule.IsManagerApprover {
		return State{Kind: PathDefault, Step: claim.CurrentStep}
	}
	return State{Kind: PathFormalRule, Step: claim.CurrentStep, Rule: rule}
}

// CurrentStepOf returns the rule step matching the state's step index, or
// nil when the state is on the default path or the index is out of range
func (s State) CurrentStepOf() *entity.Step {
	if s.Kind != PathFormalRule || s.Rule == nil {
		return nil
	}
	return s.Rule.StepAt(s.Step)
}
