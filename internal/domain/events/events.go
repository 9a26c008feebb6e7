package events

import (
	"context"
	"time"
)

// TransitionEvent is published after every successful cheque status change so
// operator consoles receive pushes instead of polling shared state.
type TransitionEvent struct {
	ChequeID string    `json:"cheque_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	// PublishTransition is best-effort: delivery failures are logged by the
	// implementation and never fail the transition that produced the event.
	PublishTransition(ctx context.Context, evt TransitionEvent)
}

// Nop discards events; used in tests and when redis is not configured.
type Nop struct{}

func (Nop) PublishTransition(context.Context, TransitionEvent) {}
