package domain

import "fmt"

// Status is the lifecycle state of an application.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// legalTransitions is the full lifecycle graph. Accepted and rejected are
// terminal: they have no outgoing edges.
var legalTransitions = map[Status][]Status{
	StatusGenerated: {StatusApplied},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusAccepted, StatusRejected},
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusGenerated, StatusApplied, StatusInterview, StatusOffer, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// IllegalTransitionError names both the current and the attempted status so
// callers can render a precise message.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}

// ValidateTransition checks the lifecycle graph. It returns an
// *IllegalTransitionError when the edge does not exist; it never mutates
// anything.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return &IllegalTransitionError{From: from, To: to}
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to}
}
