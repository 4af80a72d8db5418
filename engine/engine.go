package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/logging"
	"github.com/leeroy79/cog-service-bots/state"
)

// Config defines tuning parameters for the engine's turn processing.
type Config struct {
	// TurnTimeout bounds the wall-clock time a single turn may take,
	// including state loads and saves. Zero disables the timeout.
	TurnTimeout time.Duration
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	TurnTimeout: 30 * time.Second,
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters for turn processing.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// StateStore persists per-conversation properties across turns.
	// Defaults to an in-memory implementation if not provided.
	StateStore core.StateStore

	// Logger receives structured turn-processing logs.
	// Defaults to a no-op logger if nil.
	Logger logging.Logger

	// Callbacks hooks into the turn lifecycle. Optional.
	Callbacks *CallbackManager
}

// WithConfig overrides the default engine configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithStateStore sets the store used to persist conversation state.
func WithStateStore(store core.StateStore) func(o *Options) {
	return func(o *Options) { o.StateStore = store }
}

// WithLogger sets the engine's logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithCallbacks sets the callback manager hooked into the turn lifecycle.
func WithCallbacks(cm *CallbackManager) func(o *Options) {
	return func(o *Options) { o.Callbacks = cm }
}

// Engine routes incoming activities to registered bots and manages the
// complete lifecycle of a conversation turn.
//
// Core responsibilities:
//   - Bot registry: thread-safe registration and lookup of named bots
//   - Turn serialization: turns for the same conversation never overlap,
//     so bots can read-modify-write their state without coordination
//   - State scoping: each turn gets a fresh ConversationState over the
//     shared store, keeping staged writes isolated to the turn
//   - Lifecycle hooks: before/after/error callbacks around every turn
//
// Turns for different conversations run concurrently; the engine only
// serializes within a conversation, via a per-conversation mutex.
type Engine struct {
	stateStore core.StateStore
	logger     logging.Logger
	callbacks  *CallbackManager
	config     Config

	bots map[string]core.Bot
	mu   sync.RWMutex

	// Per-conversation locks. Entries are never removed; the map grows
	// with the number of distinct conversations seen by this process.
	convLocks map[string]*sync.Mutex
	convMu    sync.Mutex
}

// New creates an Engine with sensible defaults and optional configuration.
//
// Defaults are suitable for development and testing: an in-memory state
// store and a no-op logger. Production deployments should provide a
// durable store (for example state/sqlite) and a real logger.
//
// Example:
//
//	eng := engine.New(
//	    engine.WithStateStore(sqliteStore),
//	    engine.WithLogger(logging.NewDefaultSlogLogger()),
//	)
//	eng.Register(bot.NewFaceBot())
//	eng.Register(bot.NewISpyBot())
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:     DefaultConfig,
		StateStore: state.NewInMemoryStore(),
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Engine{
		stateStore: opts.StateStore,
		logger:     opts.Logger,
		callbacks:  opts.Callbacks,
		config:     opts.Config,
		bots:       make(map[string]core.Bot),
		convLocks:  make(map[string]*sync.Mutex),
	}
}

// Register adds a bot to the engine's registry, making it addressable by
// name in Process calls. Registering a bot with an existing name replaces
// the previous one.
//
// Registration is thread-safe, but completing it before the first Process
// call is recommended.
func (e *Engine) Register(b core.Bot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bots[b.Name()] = b
}

// GetBot retrieves a registered bot by name.
func (e *Engine) GetBot(name string) (core.Bot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bots[name]
	return b, ok
}

// Process runs one conversation turn: it delivers the activity to the
// named bot within the given conversation and returns the replies the bot
// buffered during the turn.
//
// Turns for the same conversation are serialized; concurrent Process
// calls for different conversations proceed independently. State staged
// by the bot is only durable if the bot committed it via SaveChanges:
// the engine does not flush uncommitted changes.
//
// An error is returned if the bot is unknown, the turn times out, a
// lifecycle callback rejects the turn, or the bot itself fails. Replies
// buffered before a failure are returned alongside the error.
func (e *Engine) Process(
	ctx context.Context,
	botName string,
	conversationID string,
	a core.Activity,
) ([]core.Activity, error) {
	b, ok := e.GetBot(botName)
	if !ok {
		return nil, fmt.Errorf("bot %s not found", botName)
	}

	lock := e.conversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	if e.config.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TurnTimeout)
		defer cancel()
	}

	cs := core.NewConversationState(e.stateStore, conversationID)
	tc := core.NewTurnContext(ctx, conversationID, a, cs, e.logger)

	start := time.Now()
	err := e.runTurn(ctx, b, tc)
	e.logTurn(b, tc, time.Since(start), err)

	if err != nil {
		return tc.Replies(), err
	}
	return tc.Replies(), nil
}

func (e *Engine) runTurn(ctx context.Context, b core.Bot, tc *core.TurnContext) error {
	info := &TurnInfo{
		Bot:            b.Name(),
		ConversationID: tc.ConversationID,
		TurnID:         tc.TurnID,
		Activity:       tc.Activity,
	}

	if err := e.callbacks.run(ctx, PhaseBeforeTurn, info); err != nil {
		return fmt.Errorf("before-turn callback: %w", err)
	}

	if err := b.OnTurn(tc); err != nil {
		info.Err = err
		if cbErr := e.callbacks.run(ctx, PhaseOnError, info); cbErr != nil {
			e.logger.Warn("on-error callback failed", "error", cbErr)
		}
		return err
	}

	info.Replies = tc.Replies()
	if err := e.callbacks.run(ctx, PhaseAfterTurn, info); err != nil {
		return fmt.Errorf("after-turn callback: %w", err)
	}
	return nil
}

func (e *Engine) logTurn(b core.Bot, tc *core.TurnContext, dur time.Duration, err error) {
	if bl, ok := e.logger.(*logging.BotLogger); ok {
		bl.WithComponent("engine").
			WithConversation(tc.ConversationID, tc.TurnID).
			LogTurn(b.Name(), string(tc.Activity.Type), len(tc.Replies()), dur, err)
		return
	}
	if err != nil {
		e.logger.Error("turn failed", "bot", b.Name(), "conversation", tc.ConversationID, "error", err)
		return
	}
	e.logger.Debug("turn completed", "bot", b.Name(), "conversation", tc.ConversationID, "replies", len(tc.Replies()))
}

func (e *Engine) conversationLock(conversationID string) *sync.Mutex {
	e.convMu.Lock()
	defer e.convMu.Unlock()
	lock, ok := e.convLocks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		e.convLocks[conversationID] = lock
	}
	return lock
}
