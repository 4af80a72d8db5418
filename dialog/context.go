package dialog

import (
	"fmt"
	"strings"

	"github.com/leeroy79/cog-service-bots/core"
)

// Context drives the dialog stack for a single turn. Obtain one per turn via
// Set.CreateContext; it is not safe to reuse across turns.
type Context struct {
	set    *Set
	tc     *core.TurnContext
	frames []Frame
}

// Stack returns a copy of the current frames, outermost first.
func (c *Context) Stack() []Frame {
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// Continue delivers the current turn's input to the active dialog.
//
// With an empty stack it returns StatusEmpty and the caller decides whether
// to begin a new dialog. With a non-empty stack it resumes the top frame's
// step at its recorded index, but only for message turns: membership and
// named-event turns are never expected by a waiting step, so they leave the
// stack untouched and report StatusWaiting.
func (c *Context) Continue() (Result, error) {
	if len(c.frames) == 0 {
		return Result{Status: StatusEmpty}, nil
	}
	if c.tc.Activity.Type != core.ActivityMessage {
		return Result{Status: StatusWaiting}, nil
	}
	top := c.frames[len(c.frames)-1]
	return c.run(top.Dialog, top.Step, nil, nil, strings.TrimSpace(c.tc.Activity.Text))
}

// Begin pushes a new frame for the named dialog and immediately executes its
// step 0 with the given options.
func (c *Context) Begin(name string, options any) (Result, error) {
	if _, ok := c.set.dialogs[name]; !ok {
		return Result{}, fmt.Errorf("dialog %s not registered", name)
	}
	c.frames = append(c.frames, Frame{Dialog: name, Step: 0})
	return c.run(name, 0, options, nil, "")
}

// run executes steps of the top frame's dialog starting at index, chaining
// Next outcomes within the same turn, until a step suspends, repeats, or the
// stack unwinds. The resulting stack is persisted before returning.
func (c *Context) run(name string, index int, options, result any, input string) (Result, error) {
	d, ok := c.set.dialogs[name]
	if !ok {
		return Result{}, fmt.Errorf("dialog %s not registered", name)
	}

	for {
		if index >= len(d.steps) {
			// Ran past the last step: the frame is finished.
			return c.pop(result)
		}

		sc := &StepContext{
			Context: c.tc,
			Options: options,
			Result:  result,
			Input:   input,
		}
		step, err := d.steps[index](sc)
		if err != nil {
			return Result{}, err
		}

		switch step.outcome {
		case outcomeNext:
			index++
			result = step.value
			options = nil
			input = ""

		case outcomeEnd:
			return c.pop(step.value)

		case outcomeBegin:
			if _, ok := c.set.dialogs[step.dialog]; !ok {
				return Result{}, fmt.Errorf("dialog %s not registered", step.dialog)
			}
			c.setTopStep(index + 1)
			c.frames = append(c.frames, Frame{Dialog: step.dialog, Step: 0})
			return c.run(step.dialog, 0, step.value, nil, "")

		case outcomeRepeat:
			c.setTopStep(index)
			return c.persist(Result{Status: StatusWaiting})

		default: // outcomeWaiting
			c.setTopStep(index + 1)
			return c.persist(Result{Status: StatusWaiting})
		}
	}
}

// pop removes the top frame. If a parent frame exists it resumes immediately
// with the child's result; otherwise the stack is empty and the dialog turn
// is complete.
func (c *Context) pop(value any) (Result, error) {
	c.frames = c.frames[:len(c.frames)-1]
	if len(c.frames) == 0 {
		return c.persist(Result{Status: StatusComplete, Value: value})
	}
	parent := c.frames[len(c.frames)-1]
	return c.run(parent.Dialog, parent.Step, nil, value, "")
}

func (c *Context) setTopStep(step int) {
	c.frames[len(c.frames)-1].Step = step
}

// persist stages the stack and commits the conversation's staged state. The
// stack must survive process recycling between turns, so dialog mutations
// always end in an explicit save.
func (c *Context) persist(res Result) (Result, error) {
	if err := c.set.stack.Set(c.tc, &c.frames); err != nil {
		return Result{}, err
	}
	if err := c.tc.SaveChanges(); err != nil {
		return Result{}, err
	}
	return res, nil
}
