package workflow

import (
	"context"
	"time"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"go.uber.org/zap"
)

// Transition describes one applied workflow transition for audit purposes
type Transition struct {
	ClaimID    string
	ActorID    string
	Decision   entity.Decision
	FromStep   int
	FromStatus entity.ClaimStatus
	ToStep     int
	ToStatus   entity.ClaimStatus
	At         time.Time
}

// TransitionObserver receives every applied transition. Implementations must
// not block; failures are the observer's own concern and never abort the
// transition that already committed.
type TransitionObserver interface {
	ObserveTransition(ctx context.Context, t Transition)
}

// LogObserver emits transitions as structured log events
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates a TransitionObserver backed by a zap logger
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// ObserveTransition logs the transition
func (o *LogObserver) ObserveTransition(_ context.Context, t Transition) {
	o.logger.Info("Workflow transition",
		zap.String("claim_id", t.ClaimID),
		zap.String("actor_id", t.ActorID),
		zap.String("decision", string(t.Decision)),
		zap.Int("from_step", t.FromStep),
		zap.String("from_status", t.FromStatus.String()),
		zap.Int("to_step", t.ToStep),
		zap.String("to_status", t.ToStatus.String()),
		zap.Time("at", t.At),
	)
}

// NopObserver discards transitions
type NopObserver struct{}

// ObserveTransition does nothing
func (NopObserver) ObserveTransition(context.Context, Transition) {}
