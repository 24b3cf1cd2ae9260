// Package activity implements the typing-activity state machine and the
// click throttle that drive the overlay's visual cues.
package activity

import (
	"errors"
	"time"
)

// Phase is the coarse visual state of the overlay.
type Phase int

const (
	Idle Phase = iota
	Typing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	default:
		return "unknown"
	}
}

// Hand is the paw currently pressing the keyboard.
type Hand int

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the other hand.
func (h Hand) Opposite() Hand {
	if h == Left {
		return Right
	}
	return Left
}

// State is the externally visible activity state.
type State struct {
	Phase     Phase
	Hand      Hand
	Escalated bool
	// StartedAt is the start of the current burst; zero while idle.
	StartedAt time.Time
	// Deadline is when the pending debounce fires; zero while idle.
	Deadline time.Time
}

var (
	errStartWhileIdle     = errors.New("burst start set while idle")
	errNoStartWhileTyping = errors.New("burst start missing while typing")
	errEscalatedWhileIdle = errors.New("escalated while idle")
	errDeadlineWhileIdle  = errors.New("debounce deadline set while idle")
)

// Valid reports the first violated invariant, if any.
func (s State) Valid() error {
	switch s.Phase {
	case Idle:
		if !s.StartedAt.IsZero() {
			return errStartWhileIdle
		}
		if s.Escalated {
			return errEscalatedWhileIdle
		}
		if !s.Deadline.IsZero() {
			return errDeadlineWhileIdle
		}
	case Typing:
		if s.StartedAt.IsZero() {
			return errNoStartWhileTyping
		}
	}
	return nil
}
