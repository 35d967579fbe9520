package entity

// ClaimStatus represents the workflow status of an expense claim
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "PENDING"
	StatusApproved ClaimStatus = "APPROVED"
	StatusRejected ClaimStatus = "REJECTED"
)

var terminalStatuses = map[ClaimStatus]bool{
	StatusApproved: true,
	StatusRejected: true,
}

// IsTerminal returns true if no further workflow transitions are allowed
func (s ClaimStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the string representation of the status
func (s ClaimStatus) String() string {
	return string(s)
}

// Decision is an approver's verdict on a claim at a given step
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// IsValid returns true if the decision is a recognized verdict
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// RuleType classifies how an approval rule advances through its steps
type RuleType string

const (
	RuleTypeSequential  RuleType = "SEQUENTIAL"
	RuleTypeConditional RuleType = "CONDITIONAL"
	RuleTypeCombined    RuleType = "COMBINED"
)

// IsConditional returns true if the rule type participates in
// auto-approval evaluation
func (t RuleType) IsConditional() bool {
	return t == RuleTypeConditional || t == RuleTypeCombined
}

// Role is a user's capability within their company
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleFinance  Role = "finance"
	RoleDirector Role = "director"
	RoleAdmin    Role = "admin"
)
