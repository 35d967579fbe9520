package service

import (
	"context"
	"errors"
	"testing"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
)

func TestClaimService_Initiate_DefaultPath(t *testing.T) {
	tests := []struct {
		name       string
		hasManager bool
		ruleID     *string
		managerLed bool
		wantStep   int
	}{
		{
			name:       "no rule with manager starts at manager step",
			hasManager: true,
			wantStep:   workflow.StepManager,
		},
		{
			name:     "no rule without manager skips to finance step",
			wantStep: workflow.StepFinance,
		},
		{
			name:       "manager-led rule with manager starts at manager step",
			hasManager: true,
			ruleID:     strPtr("rule-mgr"),
			managerLed: true,
			wantStep:   workflow.StepManager,
		},
		{
			name:       "manager-led rule without manager skips to finance step",
			ruleID:     strPtr("rule-mgr"),
			managerLed: true,
			wantStep:   workflow.StepFinance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			submitter := &entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee}
			if tt.hasManager {
				fx.addUser(&entity.User{ID: "mgr-1", CompanyID: "co-1", Role: entity.RoleManager})
				submitter.ManagerID = strPtr("mgr-1")
			}
			fx.addUser(submitter)
			if tt.ruleID != nil {
				fx.addRule(&entity.Rule{
					ID:                *tt.ruleID,
					CompanyID:         "co-1",
					Type:              entity.RuleTypeSequential,
					IsManagerApprover: tt.managerLed,
				})
			}

			claim := &entity.Claim{
				ID:          "claim-1",
				CompanyID:   "co-1",
				SubmitterID: "emp-1",
				RuleID:      tt.ruleID,
				Status:      entity.StatusPending,
			}

			if err := fx.newClaimService().Initiate(context.Background(), claim); err != nil {
				t.Fatalf("Initiate() error = %v", err)
			}
			if claim.CurrentStep != tt.wantStep {
				t.Errorf("Initiate() CurrentStep = %d, want %d", claim.CurrentStep, tt.wantStep)
			}
		})
	}
}

func TestClaimService_Initiate_FormalRule(t *testing.T) {
	fx := newFixture()
	fx.addUser(&entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee})
	fx.addRule(&entity.Rule{
		ID:        "rule-1",
		CompanyID: "co-1",
		Type:      entity.RuleTypeSequential,
		Steps: []entity.Step{
			{ID: "s1", Index: 0, Approvers: []entity.Approver{{UserID: "appr-1"}}},
			{ID: "s2", Index: 1, Approvers: []entity.Approver{{UserID: "appr-2"}}},
		},
	})

	claim := &entity.Claim{
		ID:          "claim-1",
		CompanyID:   "co-1",
		SubmitterID: "emp-1",
		RuleID:      strPtr("rule-1"),
		CurrentStep: 5, // left over from a stale write; Initiate owns the value
		Status:      entity.StatusPending,
	}

	if err := fx.newClaimService().Initiate(context.Background(), claim); err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}
	if claim.CurrentStep != 0 {
		t.Errorf("Initiate() CurrentStep = %d, want 0", claim.CurrentStep)
	}
}

func TestClaimService_Initiate_RuleValidation(t *testing.T) {
	tests := []struct {
		name    string
		rule    *entity.Rule
		ruleID  string
		wantErr error
	}{
		{
			name:    "missing rule",
			ruleID:  "rule-gone",
			wantErr: workflow.ErrRuleNotFound,
		},
		{
			name: "rule with no steps",
			rule: &entity.Rule{
				ID:        "rule-empty",
				CompanyID: "co-1",
				Type:      entity.RuleTypeSequential,
			},
			ruleID:  "rule-empty",
			wantErr: workflow.ErrRuleHasNoSteps,
		},
		{
			name: "step with no approvers",
			rule: &entity.Rule{
				ID:        "rule-bare-step",
				CompanyID: "co-1",
				Type:      entity.RuleTypeSequential,
				Steps:     []entity.Step{{ID: "s1", Index: 0}},
			},
			ruleID:  "rule-bare-step",
			wantErr: workflow.ErrStepHasNoApprovers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			fx.addUser(&entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee})
			if tt.rule != nil {
				fx.addRule(tt.rule)
			}

			claim := &entity.Claim{
				ID:          "claim-1",
				CompanyID:   "co-1",
				SubmitterID: "emp-1",
				RuleID:      &tt.ruleID,
				Status:      entity.StatusPending,
			}

			err := fx.newClaimService().Initiate(context.Background(), claim)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Initiate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaimService_Submit(t *testing.T) {
	fx := newFixture()
	fx.addUser(&entity.User{ID: "mgr-1", CompanyID: "co-1", Role: entity.RoleManager})
	fx.addUser(&entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee, ManagerID: strPtr("mgr-1")})

	svc := fx.newClaimService()

	claim, err := svc.Submit(context.Background(), "emp-1", SubmitInput{
		AmountCents: 12550,
		Currency:    "EUR",
		Description: "conference travel",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if claim.Status != entity.StatusPending {
		t.Errorf("Submit() Status = %s, want PENDING", claim.Status)
	}
	if claim.CurrentStep != workflow.StepManager {
		t.Errorf("Submit() CurrentStep = %d, want %d", claim.CurrentStep, workflow.StepManager)
	}
	if claim.CompanyID != "co-1" {
		t.Errorf("Submit() CompanyID = %s, want co-1", claim.CompanyID)
	}

	stored, _ := fx.claims.GetByID(context.Background(), claim.ID)
	if stored == nil {
		t.Fatalf("Submit() did not persist the claim")
	}
	if stored.CurrentStep != workflow.StepManager {
		t.Errorf("persisted CurrentStep = %d, want %d", stored.CurrentStep, workflow.StepManager)
	}
}

func TestClaimService_Submit_Validation(t *testing.T) {
	fx := newFixture()
	fx.addUser(&entity.User{ID: "emp-1", CompanyID: "co-1", Role: entity.RoleEmployee})
	svc := fx.newClaimService()

	if _, err := svc.Submit(context.Background(), "emp-1", SubmitInput{AmountCents: 0, Currency: "EUR"}); err == nil {
		t.Errorf("Submit() with zero amount expected error")
	}
	if _, err := svc.Submit(context.Background(), "emp-1", SubmitInput{AmountCents: 100, Currency: "euros"}); err == nil {
		t.Errorf("Submit() with bad currency expected error")
	}
	if _, err := svc.Submit(context.Background(), "ghost", SubmitInput{AmountCents: 100, Currency: "EUR"}); !errors.Is(err, workflow.ErrUserNotFound) {
		t.Errorf("Submit() for unknown user error = %v, want ErrUserNotFound", err)
	}
}
