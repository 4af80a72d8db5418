package bot

import (
	"fmt"
	"strings"

	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/vision"
)

// FaceState is FaceBot's durable per-conversation record.
type FaceState struct {
	CurrentUserID   string `json:"current_user_id,omitempty"`
	CurrentUserName string `json:"current_user_name,omitempty"`
	Emotion         string `json:"emotion,omitempty"`
}

// FaceBot greets users recognized by the external face-analysis collaborator
// and reacts to detected emotion changes with a canned response per emotion
// cluster. It is single-turn: no dialogs, one request and response.
type FaceBot struct {
	state *core.PropertyAccessor[FaceState]
}

// NewFaceBot constructs a FaceBot.
func NewFaceBot() *FaceBot {
	return &FaceBot{state: core.NewPropertyAccessor[FaceState](faceStateProperty, nil)}
}

// Name implements core.Bot.
func (b *FaceBot) Name() string { return FaceBotName }

// OnTurn implements core.Bot.
func (b *FaceBot) OnTurn(tc *core.TurnContext) error {
	switch ev := core.Classify(tc.Activity).(type) {
	case core.UserText:
		return b.onMessage(tc, ev.Text)
	case core.FacesAnalysed:
		return b.onFacesAnalysed(tc, ev.Raw)
	case core.EmotionDetected:
		return b.onEmotionDetected(tc, ev.Label)
	default:
		return nil
	}
}

// onMessage echoes the user's text back, attributed to the recognized user.
func (b *FaceBot) onMessage(tc *core.TurnContext, text string) error {
	st, err := b.state.Get(tc)
	if err != nil {
		return err
	}
	return tc.SendActivity(fmt.Sprintf(MsgEchoFmt, st.CurrentUserName, text))
}

// onFacesAnalysed binds the recognized identity to the conversation and
// greets by name. Malformed payloads are dropped as no-ops.
func (b *FaceBot) onFacesAnalysed(tc *core.TurnContext, raw string) error {
	userID, userName, err := vision.ParseFaces(raw)
	if err != nil {
		tc.Logger().Debug("ignoring malformed faces payload", "error", err)
		return nil
	}
	st, err := b.state.Get(tc)
	if err != nil {
		return err
	}
	st.CurrentUserID = userID
	st.CurrentUserName = userName
	if err := b.state.Set(tc, st); err != nil {
		return err
	}
	if err := tc.SaveChanges(); err != nil {
		return err
	}
	return tc.SendActivity(fmt.Sprintf(MsgGreetingFmt, userName))
}

// onEmotionDetected records the label only when it differs from the stored
// one, so repeated observations of the same emotion are no-ops.
func (b *FaceBot) onEmotionDetected(tc *core.TurnContext, label string) error {
	if strings.TrimSpace(label) == "" {
		return nil
	}
	st, err := b.state.Get(tc)
	if err != nil {
		return err
	}
	if label == st.Emotion {
		return nil
	}
	st.Emotion = label
	if err := b.state.Set(tc, st); err != nil {
		return err
	}
	if err := tc.SaveChanges(); err != nil {
		return err
	}
	tc.Logger().Info("emotion detected", "emotion", label)

	if msg := emotionMessage(label); msg != "" {
		return tc.SendActivity(msg)
	}
	return nil
}

// emotionMessage maps an emotion label onto a canned response by cluster.
// Unknown labels produce no message.
func emotionMessage(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "anger", "disgust", "contempt", "sadness":
		return MsgEmotionNegative
	case "surprise", "fear":
		return MsgEmotionAlarm
	case "happiness":
		return MsgEmotionHappy
	default:
		return ""
	}
}
