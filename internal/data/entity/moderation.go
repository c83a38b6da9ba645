package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// ModerationStatus is the lifecycle state shared by products and comments.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "PENDING"
	StatusAccepted ModerationStatus = "ACCEPTED"
	StatusRejected ModerationStatus = "REJECTED"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further moderation is possible.
func (s ModerationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Transition returns the state reached by moderating s to `to`.
//
// PENDING moves to ACCEPTED or REJECTED. A terminal state moderated to itself
// is a no-op; moderated to the other terminal state it fails with
// ErrInvalidTransition. Nothing ever re-enters PENDING.
func (s ModerationStatus) Transition(to ModerationStatus) (ModerationStatus, error) {
	if !to.Terminal() {
		return s, fmt.Errorf("%w: cannot moderate to status %q", ErrInvalidArgument, to)
	}

	switch s {
	case StatusPending:
		return to, nil
	case StatusAccepted, StatusRejected:
		if s == to {
			return s, nil
		}
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
	}

	return s, fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, s)
}

// Moderatable is anything subject to approval before public visibility.
type Moderatable interface {
	ModerationCategory() uuid.UUID
	ModerationStatus() ModerationStatus
}
