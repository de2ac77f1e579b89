package engine

import (
	"errors"
	"fmt"
)

// Refusal rejects a logically invalid operation (completing a completed
// quest, editing a bounty). It is user-visible and never fatal; the CLI
// prints it without treating the command as failed.
type Refusal struct {
	Reason string
}

func (e Refusal) Error() string { return e.Reason }

func IsRefusal(err error) bool {
	var r Refusal
	return errors.As(err, &r)
}

// ValidationError rejects bad input before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
