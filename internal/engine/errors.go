package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrOperator marks an operator outside its condition type's allowed set.
	ErrOperator = errors.New("operator not allowed for condition type")
	// ErrValue marks a condition value that cannot be coerced to the
	// type's expected domain.
	ErrValue = errors.New("value not coercible")
	// ErrField marks a field path that does not resolve on an account.
	ErrField = errors.New("field does not resolve")
)

// ValidationError reports a malformed condition. It is surfaced at rule
// validation time so authoring mistakes block activation instead of
// silently widening or narrowing a preview.
type ValidationError struct {
	ConditionID string
	Field       string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("condition %s (%s): %v", e.ConditionID, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// EvaluationError reports a field path that did not resolve on one
// account. The matcher treats it as "condition not satisfied" for that
// account rather than aborting the run.
type EvaluationError struct {
	AccountID string
	Field     string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("account %s field %s: %v", e.AccountID, e.Field, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
