package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks caller input that violates an aggregate's argument rules.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidOperation marks a transition that is not allowed from the current status.
	ErrInvalidOperation = errors.New("invalid operation")
)

// ArgumentError names the parameter that failed validation.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrValidation }

// InvalidOperationError reports an operation attempted from a status that does not allow it.
type InvalidOperationError struct {
	Op      string
	Status  string
	Message string
}

func (e *InvalidOperationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.Status)
}

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

func argErr(param, reason string) error {
	return &ArgumentError{Param: param, Reason: reason}
}

func invalidOp(op string, status fmt.Stringer) error {
	return &InvalidOperationError{Op: op, Status: status.String()}
}

func invalidOpMsg(op, msg string) error {
	return &InvalidOperationError{Op: op, Message: msg}
}

// required rejects empty and whitespace-only values.
func required(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return argErr(param, "must not be empty")
	}
	return nil
}

func requiredAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := required(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func maxLen(param, value string, n int) error {
	if len([]rune(value)) > n {
		return argErr(param, fmt.Sprintf("must be at most %d characters", n))
	}
	return nil
}

// clip cuts value to at most n characters.
func clip(value string, n int) string {
	if r := []rune(value); len(r) > n {
		return string(r[:n])
	}
	return value
}
