package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrConflict is returned when a command name or alias is already taken.
var ErrConflict = errors.New("command name conflict")

// Registry stores commands by name and alias. It does not perform dispatch; each
// adapter looks up commands and invokes them with its own context. Keys are
// compared case-insensitively. A Registry is not safe for concurrent Register
// calls; it is meant to be filled once at startup and only read afterwards.
type Registry struct {
	commands map[string]Command
	index    map[string]Command
}

// NewRegistry returns a registry holding cs, or an error on the first conflict.
func NewRegistry(cs ...Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]Command),
		index:    make(map[string]Command),
	}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a command under its name and aliases. Nothing is added when
// any of those keys is empty, duplicated or already owned by another command.
func (r *Registry) Register(c Command) error {
	keys := append([]string{c.Name()}, AliasesOf(c)...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || strings.ContainsAny(k, " \t\n") {
			return fmt.Errorf("command %q: invalid name or alias %q", c.Name(), k)
		}
		if seen[k] {
			return fmt.Errorf("%w: command %q declares %q twice", ErrConflict, c.Name(), k)
		}
		if owner, ok := r.index[k]; ok {
			return fmt.Errorf("%w: %q of command %q is taken by %q", ErrConflict, k, c.Name(), owner.Name())
		}
		seen[k] = true
	}

	r.commands[strings.ToLower(c.Name())] = c
	for k := range seen {
		r.index[k] = c
	}
	return nil
}

// Lookup resolves a name or alias to its command.
func (r *Registry) Lookup(token string) (Command, bool) {
	c, ok := r.index[strings.ToLower(token)]
	return c, ok
}

// Get returns the command registered under its canonical name, or nil.
func (r *Registry) Get(name string) Command {
	return r.commands[strings.ToLower(name)]
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
