// Package dialog implements a per-conversation dialog stack with waterfall
// semantics: each dialog is an ordered list of step functions, one step
// consumed per resuming turn, with the stack of {dialog, step} frames
// persisted through the conversation's state store so a dialog resumes
// correctly even when the process was recycled between turns.
package dialog

import (
	"fmt"

	"github.com/leeroy79/cog-service-bots/core"
)

// TurnStatus describes the dialog stack's disposition after a turn.
type TurnStatus int

const (
	// StatusEmpty means the stack was already empty; the caller decides
	// whether to begin a new dialog.
	StatusEmpty TurnStatus = iota

	// StatusWaiting means the active dialog suspended pending a later turn.
	StatusWaiting

	// StatusComplete means the stack unwound to empty during this call.
	StatusComplete
)

// String returns the string representation of the status.
func (s TurnStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusWaiting:
		return "waiting"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Result is the outcome of Begin or Continue. Value carries the final result
// of a completed dialog, if any.
type Result struct {
	Status TurnStatus
	Value  any
}

// Frame is one entry on the dialog stack: which dialog is active and which
// step resumes when the next input arrives.
type Frame struct {
	Dialog string `json:"dialog"`
	Step   int    `json:"step"`
}

// WaterfallStep is one step of a waterfall dialog. It must finish by
// returning one of the StepContext outcomes (Next, EndDialog, Repeat,
// Waiting); a zero StepResult is treated as Waiting.
type WaterfallStep func(sc *StepContext) (StepResult, error)

// WaterfallDialog executes its steps strictly in declared order.
type WaterfallDialog struct {
	name  string
	steps []WaterfallStep
}

// NewWaterfallDialog creates a waterfall dialog with the given ordered steps.
func NewWaterfallDialog(name string, steps ...WaterfallStep) *WaterfallDialog {
	return &WaterfallDialog{name: name, steps: steps}
}

// Name returns the dialog's registered name.
func (d *WaterfallDialog) Name() string { return d.name }

// Set is a registry of dialogs sharing one persisted stack property.
type Set struct {
	dialogs map[string]*WaterfallDialog
	stack   *core.PropertyAccessor[[]Frame]
}

// NewSet creates an empty dialog set whose stack persists under the given
// conversation property name.
func NewSet(stackProperty string) *Set {
	return &Set{
		dialogs: map[string]*WaterfallDialog{},
		stack:   core.NewPropertyAccessor[[]Frame](stackProperty, nil),
	}
}

// Add registers a dialog, replacing any previous dialog of the same name.
// Returns the set for chaining.
func (s *Set) Add(d *WaterfallDialog) *Set {
	s.dialogs[d.Name()] = d
	return s
}

// CreateContext binds the set to one turn, loading the persisted stack. It
// has no side effects: nothing is written until Begin or Continue mutate the
// stack.
func (s *Set) CreateContext(tc *core.TurnContext) (*Context, error) {
	frames, err := s.stack.Get(tc)
	if err != nil {
		return nil, fmt.Errorf("load dialog stack: %w", err)
	}
	return &Context{set: s, tc: tc, frames: *frames}, nil
}
