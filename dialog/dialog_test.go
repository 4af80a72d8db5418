package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/logging"
	"github.com/leeroy79/cog-service-bots/state"
)

func turnContext(store core.StateStore, a core.Activity) *core.TurnContext {
	cs := core.NewConversationState(store, "conv-1")
	return core.NewTurnContext(context.Background(), "conv-1", a, cs, logging.NoOpLogger{})
}

func promptStep(prompt string) WaterfallStep {
	return func(sc *StepContext) (StepResult, error) {
		if err := sc.SendActivity(prompt); err != nil {
			return StepResult{}, err
		}
		return sc.Waiting()
	}
}

func TestContinue_EmptyStack(t *testing.T) {
	set := NewSet("dialogStack")
	tc := turnContext(state.NewInMemoryStore(), core.NewMessageActivity("hello"))

	dc, err := set.CreateContext(tc)
	require.NoError(t, err)

	res, err := dc.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Empty(t, tc.Replies())
}

func TestBeginThenContinue_TwoStepWaterfall(t *testing.T) {
	store := state.NewInMemoryStore()

	var answered string
	set := NewSet("dialogStack").Add(NewWaterfallDialog("ask",
		promptStep("What is your name?"),
		func(sc *StepContext) (StepResult, error) {
			answered = sc.Input
			return sc.EndDialog(sc.Input)
		},
	))

	// Turn 1: begin runs step 0 and suspends.
	tc := turnContext(store, core.NewMessageActivity("hi"))
	dc, err := set.CreateContext(tc)
	require.NoError(t, err)
	res, err := dc.Begin("ask", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, res.Status)
	require.Len(t, tc.Replies(), 1)
	assert.Equal(t, "What is your name?", tc.Replies()[0].Text)

	// Turn 2: a fresh context (as after a process recycle) resumes step 1.
	tc2 := turnContext(store, core.NewMessageActivity("Ada"))
	dc2, err := set.CreateContext(tc2)
	require.NoError(t, err)
	res, err = dc2.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, "Ada", res.Value)
	assert.Equal(t, "Ada", answered)
	assert.Empty(t, dc2.Stack())
}

func TestNext_ChainsStepsWithinOneTurn(t *testing.T) {
	store := state.NewInMemoryStore()

	set := NewSet("dialogStack").Add(NewWaterfallDialog("chain",
		func(sc *StepContext) (StepResult, error) { return sc.Next(1) },
		func(sc *StepContext) (StepResult, error) { return sc.Next(sc.Result.(int) + 1) },
		func(sc *StepContext) (StepResult, error) { return sc.EndDialog(sc.Result.(int) + 1) },
	))

	tc := turnContext(store, core.NewMessageActivity("go"))
	dc, err := set.CreateContext(tc)
	require.NoError(t, err)
	res, err := dc.Begin("chain", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, 3, res.Value)
}

func TestRepeat_ReRunsSameStep(t *testing.T) {
	store := state.NewInMemoryStore()

	attempts := 0
	set := NewSet("dialogStack").Add(NewWaterfallDialog("guess",
		promptStep("Guess!"),
		func(sc *StepContext) (StepResult, error) {
			attempts++
			if sc.Input != "cat" {
				return sc.Repeat()
			}
			return sc.EndDialog(attempts)
		},
	))

	tc := turnContext(store, core.NewMessageActivity("start"))
	dc, _ := set.CreateContext(tc)
	_, err := dc.Begin("guess", nil)
	require.NoError(t, err)

	for _, wrong := range []string{"dog", "lamp"} {
		tcN := turnContext(store, core.NewMessageActivity(wrong))
		dcN, err := set.CreateContext(tcN)
		require.NoError(t, err)
		res, err := dcN.Continue()
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, res.Status)
	}

	tcOK := turnContext(store, core.NewMessageActivity("cat"))
	dcOK, _ := set.CreateContext(tcOK)
	res, err := dcOK.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, 3, res.Value)
}

func TestContinue_NonMessageTurnDoesNotAdvance(t *testing.T) {
	store := state.NewInMemoryStore()

	set := NewSet("dialogStack").Add(NewWaterfallDialog("ask",
		promptStep("Ready?"),
		func(sc *StepContext) (StepResult, error) { return sc.EndDialog(sc.Input) },
	))

	tc := turnContext(store, core.NewMessageActivity("hi"))
	dc, _ := set.CreateContext(tc)
	_, err := dc.Begin("ask", nil)
	require.NoError(t, err)

	// An event turn while waiting is ignored: no advance, no replies.
	tcEvent := turnContext(store, core.NewEventActivity("someEvent", "x"))
	dcEvent, err := set.CreateContext(tcEvent)
	require.NoError(t, err)
	res, err := dcEvent.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, res.Status)
	assert.Empty(t, tcEvent.Replies())

	// The waiting step still consumes the next message turn.
	tcMsg := turnContext(store, core.NewMessageActivity("yes"))
	dcMsg, _ := set.CreateContext(tcMsg)
	res, err = dcMsg.Continue()
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, "yes", res.Value)
}

func TestBeginDialog_ChildResumesParent(t *testing.T) {
	store := state.NewInMemoryStore()

	var parentSaw any
	set := NewSet("dialogStack").
		Add(NewWaterfallDialog("parent",
			func(sc *StepContext) (StepResult, error) { return sc.BeginDialog("child", "opts") },
			func(sc *StepContext) (StepResult, error) {
				parentSaw = sc.Result
				return sc.EndDialog(nil)
			},
		)).
		Add(NewWaterfallDialog("child",
			func(sc *StepContext) (StepResult, error) { return sc.EndDialog(sc.Options) },
		))

	tc := turnContext(store, core.NewMessageActivity("go"))
	dc, _ := set.CreateContext(tc)
	res, err := dc.Begin("parent", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, "opts", parentSaw)
}

func TestBegin_UnknownDialog(t *testing.T) {
	set := NewSet("dialogStack")
	tc := turnContext(state.NewInMemoryStore(), core.NewMessageActivity("hi"))
	dc, _ := set.CreateContext(tc)
	_, err := dc.Begin("missing", nil)
	assert.Error(t, err)
}
