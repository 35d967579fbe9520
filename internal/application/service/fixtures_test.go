package service

import (
	"context"
	"sync"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/expenseflow/approval-engine/internal/domain/workflow"
)

// In-memory repositories used across the service tests. Reads hand out
// copies so tests exercise the same read-decide-write shape the real
// sqlite-backed repositories have.

type memClaimRepo struct {
	mu     sync.Mutex
	claims map[string]*entity.Claim
}

func newMemClaimRepo() *memClaimRepo {
	return &memClaimRepo{claims: make(map[string]*entity.Claim)}
}

func (r *memClaimRepo) Create(ctx context.Context, claim *entity.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *claim
	r.claims[claim.ID] = &stored
	return nil
}

func (r *memClaimRepo) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim, ok := r.claims[id]
	if !ok {
		return nil, nil
	}
	copied := *claim
	return &copied, nil
}

func (r *memClaimRepo) UpdateWorkflowState(ctx context.Context, id string, currentStep int, status entity.ClaimStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if claim, ok := r.claims[id]; ok {
		claim.CurrentStep = currentStep
		claim.Status = status
	}
	return nil
}

func (r *memClaimRepo) ListPendingByCompany(ctx context.Context, companyID string) ([]*entity.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Claim
	for _, claim := range r.claims {
		if claim.CompanyID == companyID && claim.Status == entity.StatusPending {
			copied := *claim
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memRuleRepo struct {
	rules map[string]*entity.Rule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[string]*entity.Rule)}
}

func (r *memRuleRepo) GetByID(ctx context.Context, id string) (*entity.Rule, error) {
	return r.rules[id], nil
}

type memActionRepo struct {
	mu      sync.Mutex
	actions []*entity.Action
}

func newMemActionRepo() *memActionRepo {
	return &memActionRepo{}
}

func (r *memActionRepo) Create(ctx context.Context, action *entity.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *action
	r.actions = append(r.actions, &stored)
	return nil
}

func (r *memActionRepo) ListByClaim(ctx context.Context, claimID string) ([]*entity.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Action
	for _, a := range r.actions {
		if a.ClaimID == claimID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memActionRepo) ListByClaimStep(ctx context.Context, claimID string, step int) ([]*entity.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Action
	for _, a := range r.actions {
		if a.ClaimID == claimID && a.Step == step {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

// passthroughTx runs the function without a real transaction
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// fixture bundles the in-memory repositories behind the service ports
type fixture struct {
	claims  *memClaimRepo
	rules   *memRuleRepo
	actions *memActionRepo
	users   *memUserRepo
}

func newFixture() *fixture {
	return &fixture{
		claims:  newMemClaimRepo(),
		rules:   newMemRuleRepo(),
		actions: newMemActionRepo(),
		users:   newMemUserRepo(),
	}
}

func (f *fixture) addUser(u *entity.User) *entity.User {
	f.users.users[u.ID] = u
	return u
}

func (f *fixture) addRule(r *entity.Rule) *entity.Rule {
	f.rules.rules[r.ID] = r
	return r
}

func (f *fixture) addClaim(c *entity.Claim) *entity.Claim {
	stored := *c
	f.claims.claims[c.ID] = &stored
	return c
}

func (f *fixture) newProcessor() ApprovalProcessor {
	evaluator := NewConditionalEvaluator(f.actions, nopLogger{})
	return NewApprovalProcessor(f.claims, f.rules, f.actions, passthroughTx{}, evaluator, workflow.NopObserver{}, nopLogger{})
}

func (f *fixture) newClaimService() ClaimService {
	return NewClaimService(f.claims, f.rules, f.actions, f.users, passthroughTx{}, nopLogger{})
}

func (f *fixture) newResolver() PendingResolver {
	return NewPendingResolver(f.claims, f.rules, f.actions, f.users, nopLogger{})
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
