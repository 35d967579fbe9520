package entity

// Rule is a named approval rule configuration owned by a company.
// Steps are ordered; Step.Index is the 0-based position assigned when the
// rule is loaded, so workflow code compares it directly against
// Claim.CurrentStep.
type Rule struct {
	ID                  string   `json:"id"`
	CompanyID           string   `json:"company_id"`
	Name                string   `json:"name"`
	Type                RuleType `json:"rule_type"`
	PercentageThreshold *float64 `json:"percentage_threshold,omitempty"`
	IsManagerApprover   bool     `json:"is_manager_approver"`
	Steps               []Step   `json:"steps"`
}

// StepAt returns the step at the given 0-based index, or nil if the index
// is out of range
func (r *Rule) StepAt(index int) *Step {
	for i := range r.Steps {
		if r.Steps[i].Index == index {
			return &r.Steps[i]
		}
	}
	return nil
}

// Step is one approval stage of a rule
type Step struct {
	ID        string     `json:"id"`
	Index     int        `json:"index"`
	Approvers []Approver `json:"approvers"`
}

// HasApprover returns true if the user is named in this step
func (s *Step) HasApprover(userID string) bool {
	for _, a := range s.Approvers {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// KeyApprover returns the approver flagged as the step's key approver,
// or nil if none is flagged
func (s *Step) KeyApprover() *Approver {
	for i := range s.Approvers {
		if s.Approvers[i].IsSpecificApprover {
			return &s.Approvers[i]
		}
	}
	return nil
}

// Approver names a user allowed to act on a step
type Approver struct {
	UserID             string `json:"user_id"`
	IsSpecificApprover bool   `json:"is_specific_approver"`
}
