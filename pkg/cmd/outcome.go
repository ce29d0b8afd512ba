package cmd

import (
	"errors"
	"fmt"
)

// UserError is an error meant to be shown verbatim to whoever invoked the command.
type UserError struct {
	Msg string
}

func (e *UserError) Error() string { return e.Msg }

// Userf builds a UserError.
func Userf(format string, args ...any) error {
	return &UserError{Msg: fmt.Sprintf(format, args...)}
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	UserFailure
	Fault
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case UserFailure:
		return "user_error"
	case Fault:
		return "fault"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the classified result of one invocation.
type Outcome struct {
	Kind  OutcomeKind
	Reply string
	Err   error
}

// Classify turns the return values of Run into an Outcome. A nil error is a
// Success carrying reply; a UserError anywhere in the chain is a UserFailure
// whose reply is the error message; anything else is a Fault.
func Classify(reply string, err error) Outcome {
	if err == nil {
		return Outcome{Kind: Success, Reply: reply}
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return Outcome{Kind: UserFailure, Reply: ue.Msg, Err: err}
	}
	return Outcome{Kind: Fault, Reply: err.Error(), Err: err}
}
