package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every validation failure returned from this package.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which record failed validation and why.
type InputError struct {
	Kind   string // "expense" or "settlement"
	Index  int    // position in the input slice
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s at index %d: %s", e.Kind, e.Index, e.Reason)
}

// Is reports ErrInvalidInput as a match so callers can use errors.Is.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidExpense(index int, reason string) error {
	return &InputError{Kind: "expense", Index: index, Reason: reason}
}

func invalidSettlement(index int, reason string) error {
	return &InputError{Kind: "settlement", Index: index, Reason: reason}
}
