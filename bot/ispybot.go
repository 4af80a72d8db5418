package bot

import (
	"math/rand"
	"strings"

	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/dialog"
	"github.com/leeroy79/cog-service-bots/vision"
)

// Dialog names registered by ISpyBot.
const (
	DialogWantToPlay = "wantToPlay"
	DialogPlayGame   = "playGame"
)

// GameState is ISpyBot's durable per-conversation record.
type GameState struct {
	WaitingForTagsFromVision bool   `json:"waiting_for_tags_from_vision"`
	NumberOfGuesses          int    `json:"number_of_guesses"`
	ObjectChosenByBot        string `json:"object_chosen_by_bot,omitempty"`
}

// ISpyBot plays a guessing game: it invites the user to play, asks the vision
// collaborator to tag what the camera sees, secretly picks one of the tags
// and lets the user guess until they name it.
type ISpyBot struct {
	state   *core.PropertyAccessor[GameState]
	dialogs *dialog.Set
	intn    func(n int) int
}

// ISpyOptions configures an ISpyBot.
type ISpyOptions struct {
	// Rand picks a uniform index in [0, n). Defaults to math/rand.
	Rand func(n int) int
}

// WithRand overrides the random index source, mainly for tests.
func WithRand(fn func(n int) int) func(o *ISpyOptions) {
	return func(o *ISpyOptions) { o.Rand = fn }
}

// NewISpyBot constructs an ISpyBot with its dialog set registered.
func NewISpyBot(optFns ...func(o *ISpyOptions)) *ISpyBot {
	opts := ISpyOptions{Rand: rand.Intn}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := &ISpyBot{
		state: core.NewPropertyAccessor[GameState](gameStateProperty, nil),
		intn:  opts.Rand,
	}
	b.dialogs = dialog.NewSet(dialogStackProp).
		Add(dialog.NewWaterfallDialog(DialogWantToPlay,
			b.askToPlayStep,
			b.handlePlayAnswerStep,
		)).
		Add(dialog.NewWaterfallDialog(DialogPlayGame,
			b.announceSpyStep,
			b.handleGuessStep,
		))
	return b
}

// Name implements core.Bot.
func (b *ISpyBot) Name() string { return ISpyBotName }

// OnTurn implements core.Bot. The dialog stack always gets the turn first;
// the dispatcher then branches on the classified event and the stack status.
func (b *ISpyBot) OnTurn(tc *core.TurnContext) error {
	dc, err := b.dialogs.CreateContext(tc)
	if err != nil {
		return err
	}
	result, err := dc.Continue()
	if err != nil {
		return err
	}

	switch ev := core.Classify(tc.Activity).(type) {
	case core.ConversationStarted:
		// Kick off the intro when our counterpart agent joins.
		if isCounterpartAgent(ev.MemberIDs[0]) {
			_, err = dc.Begin(DialogWantToPlay, nil)
			return err
		}
		return nil

	case core.UserText:
		// A message with no active dialog starts the intro.
		if result.Status == dialog.StatusEmpty {
			_, err = dc.Begin(DialogWantToPlay, nil)
			return err
		}
		return nil

	case core.ImageAnalysed:
		return b.onImageAnalysed(tc, dc, ev.Objects)

	case core.ImageAnalysisFailed:
		st, err := b.state.Get(tc)
		if err != nil {
			return err
		}
		if st.WaitingForTagsFromVision {
			return b.sendImageError(tc)
		}
		return nil

	default:
		return nil
	}
}

func (b *ISpyBot) onImageAnalysed(tc *core.TurnContext, dc *dialog.Context, objects []vision.Object) error {
	st, err := b.state.Get(tc)
	if err != nil {
		return err
	}
	if !st.WaitingForTagsFromVision {
		return nil
	}

	if len(objects) == 0 {
		// No tags found. The waiting flag deliberately stays set, matching
		// the behavior this bot has always had; see DESIGN.md.
		return b.sendImageError(tc)
	}

	chosen := objects[b.intn(len(objects))]
	st.WaitingForTagsFromVision = false
	st.NumberOfGuesses = 0
	st.ObjectChosenByBot = strings.ToLower(chosen.Obj)
	if err := b.state.Set(tc, st); err != nil {
		return err
	}
	if err := tc.SaveChanges(); err != nil {
		return err
	}

	_, err = dc.Begin(DialogPlayGame, nil)
	return err
}

func (b *ISpyBot) sendImageError(tc *core.TurnContext) error {
	if err := tc.SendActivity(MsgCouldntFindAnything); err != nil {
		return err
	}
	return tc.SendActivity(MsgPlayAgain)
}

// isCounterpartAgent reports whether a joined member identifier marks the
// counterpart agent (rather than a human user).
func isCounterpartAgent(memberID string) bool {
	return strings.Contains(strings.ToLower(memberID), "bot")
}

// isAffirmative recognizes the literal confirmations the intro accepts. There
// is deliberately no language understanding here.
func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay":
		return true
	default:
		return false
	}
}
