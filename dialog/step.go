package dialog

import "github.com/leeroy79/cog-service-bots/core"

type stepOutcome int

const (
	outcomeWaiting stepOutcome = iota
	outcomeNext
	outcomeEnd
	outcomeRepeat
	outcomeBegin
)

// StepResult is the outcome a waterfall step hands back to the stack engine.
// Construct it through the StepContext helpers; the zero value means Waiting.
type StepResult struct {
	outcome stepOutcome
	value   any
	dialog  string
}

// StepContext is the per-step execution scope of a waterfall dialog.
//
// Options carries the value passed to Begin (step 0 only). Result carries the
// previous step's Next value, or a completed child dialog's result when a
// parent frame resumes. Input is the message text that resumed this step;
// it is empty for steps chained within the same turn.
type StepContext struct {
	Context *core.TurnContext
	Options any
	Result  any
	Input   string
}

// SendActivity buffers an outbound text message on the turn.
func (sc *StepContext) SendActivity(text string) error {
	return sc.Context.SendActivity(text)
}

// Next ends this step and immediately runs the following step in the same
// turn, passing value forward as its Result.
func (sc *StepContext) Next(value any) (StepResult, error) {
	return StepResult{outcome: outcomeNext, value: value}, nil
}

// EndDialog pops the dialog's frame, optionally resuming a parent frame with
// the given value.
func (sc *StepContext) EndDialog(value any) (StepResult, error) {
	return StepResult{outcome: outcomeEnd, value: value}, nil
}

// Repeat suspends the dialog and re-runs this same step when the next message
// turn arrives. Use it for retry loops such as repeated guessing.
func (sc *StepContext) Repeat() (StepResult, error) {
	return StepResult{outcome: outcomeRepeat}, nil
}

// Waiting suspends the dialog until the next message turn, which resumes at
// the following step.
func (sc *StepContext) Waiting() (StepResult, error) {
	return StepResult{outcome: outcomeWaiting}, nil
}

// BeginDialog ends this step by pushing a child dialog frame and running its
// step 0 in the same turn. When the child completes, this dialog resumes at
// the following step with the child's result.
func (sc *StepContext) BeginDialog(name string, options any) (StepResult, error) {
	return StepResult{outcome: outcomeBegin, dialog: name, value: options}, nil
}
