package engine

import (
	"context"

	"github.com/leeroy79/cog-service-bots/core"
)

// TurnPhase identifies the lifecycle point where a callback executes.
type TurnPhase string

const (
	// PhaseBeforeTurn runs before the activity reaches the bot. A callback
	// error at this phase rejects the turn without invoking the bot.
	PhaseBeforeTurn TurnPhase = "before_turn"

	// PhaseAfterTurn runs after the bot completed the turn successfully.
	// Replies are available on the TurnInfo at this point.
	PhaseAfterTurn TurnPhase = "after_turn"

	// PhaseOnError runs when the bot returns an error. Callback errors at
	// this phase are logged and do not replace the bot's error.
	PhaseOnError TurnPhase = "on_error"
)

// TurnInfo carries the context a callback needs about the turn being
// processed. Replies is populated only for PhaseAfterTurn, Err only for
// PhaseOnError.
type TurnInfo struct {
	Bot            string
	ConversationID string
	TurnID         string
	Activity       core.Activity
	Replies        []core.Activity
	Err            error
}

// Callback is a hook into the engine's turn lifecycle. Implementations
// should be fast (they run synchronously on the turn path) and must not
// retain the TurnInfo beyond the call.
type Callback interface {
	// Phase returns the lifecycle phase this callback handles.
	Phase() TurnPhase

	// Execute performs the callback. A non-nil error terminates the turn
	// for PhaseBeforeTurn and PhaseAfterTurn.
	Execute(ctx context.Context, info *TurnInfo) error
}

// FunctionCallback wraps a plain function as a Callback.
type FunctionCallback struct {
	phase TurnPhase
	fn    func(ctx context.Context, info *TurnInfo) error
}

// NewFunctionCallback creates a callback from a function for the given phase.
//
// Example:
//
//	audit := engine.NewFunctionCallback(engine.PhaseAfterTurn,
//	    func(ctx context.Context, info *engine.TurnInfo) error {
//	        log.Printf("%s replied %d times", info.Bot, len(info.Replies))
//	        return nil
//	    })
func NewFunctionCallback(phase TurnPhase, fn func(ctx context.Context, info *TurnInfo) error) *FunctionCallback {
	return &FunctionCallback{phase: phase, fn: fn}
}

// Phase returns the lifecycle phase this callback handles.
func (c *FunctionCallback) Phase() TurnPhase { return c.phase }

// Execute calls the wrapped function.
func (c *FunctionCallback) Execute(ctx context.Context, info *TurnInfo) error {
	return c.fn(ctx, info)
}

// CallbackManager holds the registered lifecycle callbacks and runs them
// in registration order. The first error stops the chain.
//
// Registration is not synchronized; register all callbacks before handing
// the manager to the engine.
type CallbackManager struct {
	callbacks map[TurnPhase][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{callbacks: make(map[TurnPhase][]Callback)}
}

// Register adds a callback for its declared phase. Multiple callbacks per
// phase run in registration order.
func (cm *CallbackManager) Register(cb Callback) {
	cm.callbacks[cb.Phase()] = append(cm.callbacks[cb.Phase()], cb)
}

// run executes all callbacks for the phase. A nil manager is valid and
// runs nothing, so the engine can treat callbacks as optional.
func (cm *CallbackManager) run(ctx context.Context, phase TurnPhase, info *TurnInfo) error {
	if cm == nil {
		return nil
	}
	for _, cb := range cm.callbacks[phase] {
		if err := cb.Execute(ctx, info); err != nil {
			return err
		}
	}
	return nil
}
