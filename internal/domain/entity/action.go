package entity

import "time"

// Action is one immutable approve/reject decision recorded against a claim.
// The action ledger is append-only and is the sole source of truth for who
// already acted on a step.
type Action struct {
	ID        string    `json:"id"`
	ClaimID   string    `json:"claim_id"`
	ActorID   string    `json:"actor_id"`
	Step      int       `json:"step"`
	Decision  Decision  `json:"decision"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
