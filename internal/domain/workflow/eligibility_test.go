package workflow

import (
	"testing"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestStateOf(t *testing.T) {
	claim := &entity.Claim{ID: "c1", CurrentStep: 1, Status: entity.StatusPending}

	if got := StateOf(claim, nil); got.Kind != PathDefault || got.Step != 1 {
		t.Errorf("StateOf(no rule) = %+v, want default path at step 1", got)
	}

	managerLed := &entity.Rule{ID: "r1", IsManagerApprover: true}
	if got := StateOf(claim, managerLed); got.Kind != PathDefault {
		t.Errorf("StateOf(manager-led rule) kind = %s, want default path", got.Kind)
	}

	formal := &entity.Rule{ID: "r2", Steps: []entity.Step{{ID: "s1", Index: 0}, {ID: "s2", Index: 1}}}
	got := StateOf(claim, formal)
	if got.Kind != PathFormalRule {
		t.Fatalf("StateOf(formal rule) kind = %s, want formal rule", got.Kind)
	}
	if step := got.CurrentStepOf(); step == nil || step.ID != "s2" {
		t.Errorf("CurrentStepOf() = %v, want step s2", step)
	}

	claim.CurrentStep = 5
	if step := StateOf(claim, formal).CurrentStepOf(); step != nil {
		t.Errorf("CurrentStepOf() past the step list = %v, want nil", step)
	}
}

func TestIsEligible(t *testing.T) {
	manager := &entity.User{ID: "mgr-1", CompanyID: "co-1", Role: entity.RoleManager}
	submitter := &entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee, ManagerID: strPtr("mgr-1")}
	finance := &entity.User{ID: "fin-1", CompanyID: "co-1", Role: entity.RoleFinance}
	director := &entity.User{ID: "dir-1", CompanyID: "co-1", Role: entity.RoleDirector}
	outsider := &entity.User{ID: "fin-2", CompanyID: "co-2", Role: entity.RoleFinance}

	rule := &entity.Rule{
		ID:        "rule-1",
		CompanyID: "co-1",
		Type:      entity.RuleTypeSequential,
		Steps: []entity.Step{
			{ID: "s1", Index: 0, Approvers: []entity.Approver{{UserID: "appr-1"}}},
		},
	}
	approver := &entity.User{ID: "appr-1", CompanyID: "co-1", Role: entity.RoleEmployee}

	defaultClaim := func(step int) *entity.Claim {
		return &entity.Claim{ID: "c1", CompanyID: "co-1", SubmitterID: "emp-1", CurrentStep: step, Status: entity.StatusPending}
	}

	tests := []struct {
		name  string
		user  *entity.User
		claim *entity.Claim
		rule  *entity.Rule
		want  bool
	}{
		{"manager at manager step", manager, defaultClaim(StepManager), nil, true},
		{"finance at manager step", finance, defaultClaim(StepManager), nil, false},
		{"manager at finance step", manager, defaultClaim(StepFinance), nil, false},
		{"finance at finance step", finance, defaultClaim(StepFinance), nil, true},
		{"director at director step", director, defaultClaim(StepDirector), nil, true},
		{"finance at director step", finance, defaultClaim(StepDirector), nil, false},
		{"other company finance", outsider, defaultClaim(StepFinance), nil, false},
		{"named approver on formal rule", approver, claimWithRule(defaultClaim(0), rule.ID), rule, true},
		{"manager on formal rule", manager, claimWithRule(defaultClaim(0), rule.ID), rule, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligible(tt.user, submitter, tt.claim, tt.rule); got != tt.want {
				t.Errorf("IsEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func claimWithRule(claim *entity.Claim, ruleID string) *entity.Claim {
	claim.RuleID = &ruleID
	return claim
}

func TestIsEligible_TerminalClaim(t *testing.T) {
	finance := &entity.User{ID: "fin-1", CompanyID: "co-1", Role: entity.RoleFinance}
	submitter := &entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee}

	claim := &entity.Claim{
		ID: "c1", CompanyID: "co-1", SubmitterID: "emp-1",
		CurrentStep: StepFinance, Status: entity.StatusApproved,
	}

	if IsEligible(finance, submitter, claim, nil) {
		t.Errorf("IsEligible() = true for a terminal claim, want false")
	}
}

func TestIsEligible_SubmitterWithoutManager(t *testing.T) {
	manager := &entity.User{ID: "mgr-1", CompanyID: "co-1", Role: entity.RoleManager}
	submitter := &entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee}

	claim := &entity.Claim{
		ID: "c1", CompanyID: "co-1", SubmitterID: "emp-1",
		CurrentStep: StepManager, Status: entity.StatusPending,
	}

	if IsEligible(manager, submitter, claim, nil) {
		t.Errorf("IsEligible() = true for a non-manager of the submitter, want false")
	}
}
