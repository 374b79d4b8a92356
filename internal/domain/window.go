package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel wrapped by every InputError. Callers use
// errors.Is(err, ErrInvalidInput) to distinguish bad input from I/O failures.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a missing or unparseable required field. The compiler
// never guesses a default date: a record that cannot state its declaration
// and incident start must not be persisted.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Window is a computed SEP eligibility window, both bounds inclusive.
type Window struct {
	Start Date
	End   Date
}

// SEPWindowStart is the earlier of the declaration date and the incident
// start: eligibility opens as soon as either officially establishes the
// disaster.
func SEPWindowStart(declaration, incidentStart Date) Date {
	return MinDate(declaration, incidentStart)
}

// ComputeWindow derives the SEP window from a record's input dates.
//
// Ended incidents close the window two full calendar months after the
// incident end. Ongoing incidents (nil incidentEnd) get a 14-month ceiling
// anchored at the latest known activity date: the window start or any later
// renewal date, so renewals extend the window but never shorten it.
func ComputeWindow(declaration, incidentStart Date, incidentEnd *Date, renewals []Date) (Window, error) {
	if declaration.IsZero() {
		return Window{}, &InputError{Field: "declarationDate", Reason: "missing or unparseable"}
	}
	if incidentStart.IsZero() {
		return Window{}, &InputError{Field: "incidentStart", Reason: "missing or unparseable"}
	}

	start := SEPWindowStart(declaration, incidentStart)

	if incidentEnd != nil {
		return Window{Start: start, End: LastDayOfMonthPlus(*incidentEnd, 2)}, nil
	}

	anchor := start
	for _, r := range renewals {
		anchor = MaxDate(anchor, r)
	}
	return Window{Start: start, End: LastDayOfMonthPlus(anchor, 14)}, nil
}
