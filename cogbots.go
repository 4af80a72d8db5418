// Package cogbots provides a high-level façade over the turn engine and
// service abstractions (state, dialogs & logging) for building bots driven
// by external vision analysis. Most applications interact with this package
// by:
//  1. Creating a CogBots instance via New() (optionally overriding the
//     default in-memory state store)
//  2. Registering one or more bots (the built-in FaceBot and ISpyBot, or
//     custom core.Bot implementations)
//  3. Delivering activities with Process and relaying the returned replies
//
// The façade delegates orchestration to engine.Engine while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable state
// store (for example state/sqlite) and a structured logger.
package cogbots

import (
	"context"

	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/engine"
	"github.com/leeroy79/cog-service-bots/logging"
	"github.com/leeroy79/cog-service-bots/state"
)

// Options configures the CogBots instance.
type Options struct {
	// EngineConfig tunes turn processing (timeouts).
	EngineConfig engine.Config

	// StateStore persists conversation state across turns (defaults to an
	// in-memory implementation if not provided).
	StateStore core.StateStore

	// Logger receives structured turn logs (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Callbacks hooks into the turn lifecycle. Optional.
	Callbacks *engine.CallbackManager
}

// CogBots is the high-level façade aggregating the underlying engine and services.
type CogBots struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new CogBots instance with optional overrides. An unset state
// store is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *CogBots {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		StateStore:   state.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.StateStore = opts.StateStore
		o.Logger = opts.Logger
		o.Callbacks = opts.Callbacks
	})

	return &CogBots{opts: opts, engine: e}
}

// RegisterBot adds a bot to the underlying engine.
func (c *CogBots) RegisterBot(b core.Bot) { c.engine.Register(b) }

// Process delivers one activity to the named bot within a conversation and
// returns the replies the bot produced during the turn.
func (c *CogBots) Process(
	ctx context.Context,
	botName string,
	conversationID string,
	a core.Activity,
) ([]core.Activity, error) {
	return c.engine.Process(ctx, botName, conversationID, a)
}
