package bot

import (
	"fmt"
	"strings"

	"github.com/leeroy79/cog-service-bots/dialog"
)

// Waterfall steps for the wantToPlay dialog.

func (b *ISpyBot) askToPlayStep(sc *dialog.StepContext) (dialog.StepResult, error) {
	if err := sc.SendActivity(MsgDoYouWantToPlay); err != nil {
		return dialog.StepResult{}, err
	}
	return sc.Waiting()
}

func (b *ISpyBot) handlePlayAnswerStep(sc *dialog.StepContext) (dialog.StepResult, error) {
	if !isAffirmative(sc.Input) {
		if err := sc.SendActivity(MsgMaybeLater); err != nil {
			return dialog.StepResult{}, err
		}
		return sc.EndDialog(nil)
	}

	// Ask the vision collaborator for tags; the game proper starts when the
	// imageAnalysed event comes back.
	st, err := b.state.Get(sc.Context)
	if err != nil {
		return dialog.StepResult{}, err
	}
	st.WaitingForTagsFromVision = true
	if err := b.state.Set(sc.Context, st); err != nil {
		return dialog.StepResult{}, err
	}
	if err := sc.Context.SaveChanges(); err != nil {
		return dialog.StepResult{}, err
	}
	if err := sc.SendActivity(MsgLookingForObject); err != nil {
		return dialog.StepResult{}, err
	}
	return sc.EndDialog(nil)
}

// Waterfall steps for the playGame dialog.

func (b *ISpyBot) announceSpyStep(sc *dialog.StepContext) (dialog.StepResult, error) {
	if err := sc.SendActivity(MsgISpy); err != nil {
		return dialog.StepResult{}, err
	}
	return sc.Waiting()
}

func (b *ISpyBot) handleGuessStep(sc *dialog.StepContext) (dialog.StepResult, error) {
	st, err := b.state.Get(sc.Context)
	if err != nil {
		return dialog.StepResult{}, err
	}

	guess := strings.ToLower(strings.TrimSpace(sc.Input))
	if st.ObjectChosenByBot != "" && guess == st.ObjectChosenByBot {
		guesses := st.NumberOfGuesses + 1
		if err := sc.SendActivity(fmt.Sprintf(MsgCorrectGuessFmt, st.ObjectChosenByBot, guesses)); err != nil {
			return dialog.StepResult{}, err
		}
		if err := sc.SendActivity(MsgPlayAgain); err != nil {
			return dialog.StepResult{}, err
		}

		st.NumberOfGuesses = 0
		st.ObjectChosenByBot = ""
		if err := b.state.Set(sc.Context, st); err != nil {
			return dialog.StepResult{}, err
		}
		if err := sc.Context.SaveChanges(); err != nil {
			return dialog.StepResult{}, err
		}
		return sc.EndDialog(guesses)
	}

	st.NumberOfGuesses++
	if err := b.state.Set(sc.Context, st); err != nil {
		return dialog.StepResult{}, err
	}
	if err := sc.Context.SaveChanges(); err != nil {
		return dialog.StepResult{}, err
	}
	if err := sc.SendActivity(MsgWrongGuess); err != nil {
		return dialog.StepResult{}, err
	}
	return sc.Repeat()
}
