// Package core contains the fundamental types of the turn-processing
// runtime: the Activity turn envelope, the classified TurnEvent variants, the
// per-turn TurnContext, the StateStore contract with its typed
// PropertyAccessor staging semantics, and the Bot interface.
//
// The package is deliberately free of transport, storage and dialog concerns;
// those live in their own packages and depend on core, never the reverse.
package core
