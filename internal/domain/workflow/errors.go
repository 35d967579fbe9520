package workflow

import "errors"

var (
	// ErrClaimNotFound is returned when the referenced claim does not exist
	ErrClaimNotFound = errors.New("claim not found")

	// ErrRuleNotFound is returned when a claim references a missing rule
	ErrRuleNotFound = errors.New("approval rule not found")

	// ErrUserNotFound is returned when the acting user is not on the roster
	ErrUserNotFound = errors.New("user not found")

	// ErrClaimNotPending is returned when an action is attempted on a claim
	// that already reached a terminal status
	ErrClaimNotPending = errors.New("claim is not pending")

	// ErrInvalidDecision is returned for a decision outside APPROVED/REJECTED
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrCommentRequired is returned when a rejection carries no comment
	ErrCommentRequired = errors.New("comment required for rejection")

	// ErrRuleHasNoSteps is returned when a formal rule has an empty step list
	ErrRuleHasNoSteps = errors.New("approval rule has no steps")

	// ErrStepHasNoApprovers is returned when a rule step names no approvers
	ErrStepHasNoApprovers = errors.New("approval step has no approvers")
)
