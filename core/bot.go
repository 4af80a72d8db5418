package core

// Bot is the interface every conversational agent implements. The engine
// constructs a fresh TurnContext per incoming activity and hands it to
// OnTurn; the bot classifies the activity, advances its dialogs or mutates
// state, and buffers outbound replies on the context.
//
// Implementations must:
//   - Respect context cancellation on the TurnContext
//   - Persist state mutations explicitly via SaveChanges before returning
//   - Treat unrecognized turn events as no-ops
type Bot interface {
	Name() string
	OnTurn(tc *TurnContext) error
}
