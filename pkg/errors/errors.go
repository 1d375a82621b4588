package errors

import (
	"fmt"
	"io"
)

// ModelError is the interface implemented by all protowalk errors.
type ModelError interface {
	error
	// Kind names the error class, e.g. "Cycle", "Type", "Scenario".
	Kind() string
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// CycleError is returned when a delegate assignment would make an object
// reachable from itself through its delegate chain.
type CycleError struct {
	Object   string // display name of the object being rebound
	Delegate string // display name of the rejected delegate
	Msg      string
	Cause    error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Cycle Error: %s", e.Message())
}
func (e *CycleError) Kind() string { return "Cycle" }
func (e *CycleError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("cyclic delegate: %s would reach %s again through %s", e.Object, e.Object, e.Delegate)
}
func (e *CycleError) Unwrap() error { return e.Cause }
func (e *CycleError) CausedBy(cause error) *CycleError {
	e.Cause = cause
	return e
}

// TypeError represents calling something that is not callable.
type TypeError struct {
	Msg   string
	Cause error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type Error: %s", e.Msg)
}
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// ScenarioError represents a failure loading or setting up a scenario file.
type ScenarioError struct {
	Position
	Msg   string
	Cause error
}

func (e *ScenarioError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("Scenario Error in %s: %s", e.fileName(), e.Msg)
	}
	return fmt.Sprintf("Scenario Error at %s:%d:%d: %s", e.fileName(), e.Line, e.Column, e.Msg)
}
func (e *ScenarioError) Pos() Position   { return e.Position }
func (e *ScenarioError) Kind() string    { return "Scenario" }
func (e *ScenarioError) Message() string { return e.Msg }
func (e *ScenarioError) Unwrap() error   { return e.Cause }
func (e *ScenarioError) CausedBy(cause error) *ScenarioError {
	e.Cause = cause
	return e
}

func (e *ScenarioError) fileName() string {
	if e.File == "" {
		return "<scenario>"
	}
	return e.File
}

// --- Error Reporting ---

// DisplayErrors prints a list of errors to w, one per line, using the
// position when the error carries one.
func DisplayErrors(w io.Writer, errs []ModelError) {
	for _, err := range errs {
		if p, ok := err.(interface{ Pos() Position }); ok && p.Pos().Line > 0 {
			pos := p.Pos()
			// Format: <Kind> Error at <File>:<Line>:<Column>: <Message>
			fmt.Fprintf(w, "%s Error at %s:%d:%d: %s\n", err.Kind(), pos.File, pos.Line, pos.Column, err.Message())
			continue
		}
		fmt.Fprintf(w, "%s Error: %s\n", err.Kind(), err.Message())
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(w, "  caused by: %s\n", cause)
		}
	}
}
