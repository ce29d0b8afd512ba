// Package dispatch turns inbound chat events into command invocations.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/keshon/ceres/internal/bot"
	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/logsink"
	"github.com/keshon/ceres/pkg/cmd"
)

const source = "dispatch"

// Options configures a Dispatcher.
type Options struct {
	Prefix string
	Filter Filter
	// ReminderReply is sent to the channel of a SpecialReact event.
	ReminderReply string
	// CommandTimeout bounds a single invocation. Zero means no bound.
	CommandTimeout time.Duration
}

// Dispatcher runs the event pipeline: filter, prefix, lookup, invoke, reply.
// Handle is safe for concurrent use; every event is independent.
type Dispatcher struct {
	platform bot.Platform
	registry *cmd.Registry
	sink     *logsink.Sink

	filter        Filter
	resolver      Resolver
	reminderReply string
	timeout       time.Duration

	newID func() string
}

// New builds a Dispatcher. When Options.Filter has no SelfID the platform's
// own id is read on every event, since it is only known once connected.
func New(p bot.Platform, reg *cmd.Registry, sink *logsink.Sink, opts Options) *Dispatcher {
	return &Dispatcher{
		platform:      p,
		registry:      reg,
		sink:          sink,
		filter:        opts.Filter,
		resolver:      Resolver{Prefix: opts.Prefix, SelfID: opts.Filter.SelfID},
		reminderReply: opts.ReminderReply,
		timeout:       opts.CommandTimeout,
		newID:         uuid.NewString,
	}
}

// Handle processes one event to completion. Errors never escape: every
// failure is either replied to the user or written to the log sink.
func (d *Dispatcher) Handle(ctx context.Context, ev bot.InboundEvent) {
	filter, resolver := d.filter, d.resolver
	if filter.SelfID == "" {
		filter.SelfID = d.platform.SelfID()
		resolver.SelfID = filter.SelfID
	}

	switch filter.Decide(ev) {
	case Ignore:
		return
	case SpecialReact:
		if err := d.platform.SendMessage(ctx, ev.ChannelID, d.reminderReply); err != nil {
			d.sink.Log(logsink.Warning, source, "send reminder reply: %v", err)
		}
	}

	m, ok := resolver.Resolve(ev.Content)
	if !ok {
		return
	}
	name, raw := cmd.SplitCommand(m.Text)
	c, ok := d.registry.Lookup(name)
	if !ok {
		d.sink.Log(logsink.Debug, source, "unknown command %q from %s", name, ev.AuthorID)
		return
	}

	inv := &cmd.Invocation{
		ID:   d.newID(),
		Name: name,
		Raw:  raw,
		Data: &command.MessageContext{
			Platform: d.platform,
			Event:    ev,
			Registry: d.registry,
			Log:      d.sink,
			Prefix:   d.resolver.Prefix,
		},
	}

	d.reply(ctx, ev, c, inv, d.invoke(ctx, c, inv))
}

// invoke runs c under the command timeout and turns a panic into a fault.
func (d *Dispatcher) invoke(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (out cmd.Outcome) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s: %v", c.Name(), r)
			d.sink.Log(logsink.Debug, c.Name(), "invocation %s stack:\n%s", inv.ID, debug.Stack())
			out = cmd.Outcome{Kind: cmd.Fault, Reply: err.Error(), Err: err}
		}
	}()

	reply, err := c.Run(ctx, inv)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("command timed out after %s: %w", d.timeout, err)
	}
	return cmd.Classify(reply, err)
}

func (d *Dispatcher) reply(ctx context.Context, ev bot.InboundEvent, c cmd.Command, inv *cmd.Invocation, out cmd.Outcome) {
	switch out.Kind {
	case cmd.Fault:
		d.sink.Fault(c.Name(), out.Err, "invocation %s failed", inv.ID)
	case cmd.UserFailure:
		d.sink.Log(logsink.Debug, c.Name(), "invocation %s rejected: %s", inv.ID, out.Reply)
	}

	if out.Reply == "" {
		return
	}
	if err := d.platform.SendMessage(ctx, ev.ChannelID, out.Reply); err != nil {
		d.sink.Log(logsink.Warning, c.Name(), "send reply for invocation %s: %v", inv.ID, err)
	}
}
