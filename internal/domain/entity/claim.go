package entity

import "time"

// Claim represents an expense claim routed through the approval workflow.
// CurrentStep is only meaningful while Status is PENDING.
type Claim struct {
	ID          string      `json:"id"`
	CompanyID   string      `json:"company_id"`
	SubmitterID string      `json:"submitter_id"`
	AmountCents int64       `json:"amount_cents"`
	Currency    string      `json:"currency"`
	Description string      `json:"description"`
	RuleID      *string     `json:"rule_id,omitempty"`
	CurrentStep int         `json:"current_step"`
	Status      ClaimStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
