package core

import (
	"context"

	"github.com/leeroy79/cog-service-bots/logging"
)

// TurnContext carries everything a bot needs to process one conversation
// turn: the ambient cancellation context, the incoming activity, the state
// staging layer, and a buffer for outbound replies. A fresh TurnContext is
// constructed for every turn and discarded when the turn ends; nothing here
// survives across turns except what the bot commits through the state store.
type TurnContext struct {
	Context        context.Context
	ConversationID string
	TurnID         string
	Activity       Activity
	State          *ConversationState

	replies []Activity
	logger  logging.Logger
}

// NewTurnContext constructs the per-turn scope. A nil logger is replaced with
// a no-op logger.
func NewTurnContext(
	ctx context.Context,
	conversationID string,
	activity Activity,
	state *ConversationState,
	logger logging.Logger,
) *TurnContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &TurnContext{
		Context:        ctx,
		ConversationID: conversationID,
		TurnID:         NewID(),
		Activity:       activity,
		State:          state,
		logger:         logger,
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (tc *TurnContext) Done() <-chan struct{} { return tc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (tc *TurnContext) Err() error { return tc.Context.Err() }

// Logger returns the turn's logger.
func (tc *TurnContext) Logger() logging.Logger { return tc.logger }

// SendActivity buffers an outbound text message for this turn. Returns the
// context error if the turn was cancelled, so a cancellation aborts remaining
// side effects.
func (tc *TurnContext) SendActivity(text string) error {
	if err := tc.Context.Err(); err != nil {
		return err
	}
	tc.replies = append(tc.replies, NewReplyActivity(text))
	return nil
}

// Replies returns the outbound activities buffered so far, in send order.
func (tc *TurnContext) Replies() []Activity {
	out := make([]Activity, len(tc.replies))
	copy(out, tc.replies)
	return out
}

// SaveChanges commits all staged state mutations for this conversation.
func (tc *TurnContext) SaveChanges() error {
	return tc.State.SaveChanges(tc.Context)
}
