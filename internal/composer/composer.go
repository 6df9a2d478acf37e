// Package composer implements the two-phase transaction wizards that
// build a line item ledger, capture counterparty details and commit the
// result against the backend.
package composer

import (
	"errors"
	"fmt"
)

// Phase is a composer state. Transitions go through a single guarded
// transition table; there is no other way to move between phases.
type Phase int

// Composer phases.
const (
	// ComposingItems is the initial phase: line items are added,
	// removed and edited.
	ComposingItems Phase = iota
	// CapturingCounterparty captures the new customer for a sale.
	// Purchases skip this phase; their provider is chosen, not created.
	CapturingCounterparty
	// Submitting means a commit is in flight. Further submits are
	// rejected until it settles.
	Submitting
	// Closed is terminal: the transaction committed and the draft was
	// reset.
	Closed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case ComposingItems:
		return "composing_items"
	case CapturingCounterparty:
		return "capturing_counterparty"
	case Submitting:
		return "submitting"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// legal enumerates the allowed phase transitions for both variants.
var legal = map[Phase][]Phase{
	ComposingItems:        {CapturingCounterparty, Submitting},
	CapturingCounterparty: {ComposingItems, Submitting},
	Submitting:            {Closed, CapturingCounterparty, ComposingItems},
	Closed:                nil,
}

// Sentinel errors shared by both composer variants.
var (
	// ErrLedgerEmpty blocks leaving item composition with no lines.
	ErrLedgerEmpty = errors.New("composer: ledger has no lines")
	// ErrInvalidLines blocks leaving item composition while any line
	// fails validation; details are in FieldErrors.
	ErrInvalidLines = errors.New("composer: line items failed validation")
	// ErrInvalidCounterparty blocks submission while counterparty
	// fields fail validation; details are in FieldErrors.
	ErrInvalidCounterparty = errors.New("composer: counterparty failed validation")
	// ErrSubmitInFlight rejects a submit while one is already running.
	ErrSubmitInFlight = errors.New("composer: submit already in flight")
	// ErrClosed rejects any action on a finished composer.
	ErrClosed = errors.New("composer: already closed")
)

// badTransitionError reports an edge outside the transition table.
type badTransitionError struct {
	from, to Phase
}

func (e *badTransitionError) Error() string {
	return fmt.Sprintf("composer: illegal transition %s -> %s", e.from, e.to)
}

// transition validates an edge against the table and returns the new
// phase.
func transition(from, to Phase) (Phase, error) {
	for _, allowed := range legal[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, &badTransitionError{from: from, to: to}
}
