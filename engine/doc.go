// Package engine routes activities to registered bots and owns the turn
// lifecycle: per-conversation serialization, state scoping, timeouts and
// lifecycle callbacks.
//
// The engine is transport-agnostic. Callers hand it an activity (from a
// console loop, an HTTP adapter, or a test) together with a bot name and
// a conversation identifier, and receive the replies the bot produced:
//
//	eng := engine.New(engine.WithStateStore(store))
//	eng.Register(bot.NewISpyBot())
//
//	replies, err := eng.Process(ctx, "ispy", "conv-1", core.NewMessageActivity("hello"))
//
// Turns within one conversation never overlap, which lets bots
// read-modify-write their conversation state without locking of their own.
package engine
