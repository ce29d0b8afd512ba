// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord messages, CLI) is defined by adapters that wrap this.
package cmd

import (
	"context"
	"strconv"
)

// Invocation carries the input any command runner can pass: the resolved name,
// the raw argument string, its positional split, and an opaque payload.
// Adapters set Data to their context (e.g. *command.MessageContext).
//
// Args may be set by the caller. When it is nil, Raw is split with SplitArgs
// the first time a positional helper runs, so commands reading only Raw never
// see quoting errors.
type Invocation struct {
	ID   string
	Name string
	Raw  string
	Args []string
	Data interface{}

	split    bool
	splitErr error
}

// Command is the universal contract: identity plus execution. Run returns the
// reply text (empty for none) and an error; see Classify for how the pair is read.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) (string, error)
}

// Aliaser is implemented by commands reachable under additional names.
type Aliaser interface {
	Aliases() []string
}

// Usager is implemented by commands with usage help text.
type Usager interface {
	Usage() string
}

// Positional returns the positional arguments, splitting Raw on first use.
func (inv *Invocation) Positional() ([]string, error) {
	if inv.Args == nil && !inv.split {
		inv.Args, inv.splitErr = SplitArgs(inv.Raw)
		inv.split = true
	}
	return inv.Args, inv.splitErr
}

// Arg returns the i-th positional argument, or def when absent or when Raw
// does not split.
func (inv *Invocation) Arg(i int, def string) string {
	args, err := inv.Positional()
	if err == nil && i < len(args) {
		return args[i]
	}
	return def
}

// Uint64 parses the i-th positional argument as an unsigned integer.
// An absent argument yields def; a malformed one a UserError.
func (inv *Invocation) Uint64(i int, def uint64) (uint64, error) {
	args, err := inv.Positional()
	if err != nil {
		return 0, err
	}
	if i >= len(args) {
		return def, nil
	}
	v, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil {
		return 0, Userf("Failed to parse UInt64.")
	}
	return v, nil
}

// Expect checks the positional argument count against [min, max].
// max < 0 means unbounded.
func (inv *Invocation) Expect(min, max int) error {
	args, err := inv.Positional()
	if err != nil {
		return err
	}
	if len(args) < min {
		return Userf("The input text has too few parameters.")
	}
	if max >= 0 && len(args) > max {
		return Userf("The input text has too many parameters.")
	}
	return nil
}
