package core

import (
	"encoding/json"

	"github.com/leeroy79/cog-service-bots/vision"
)

// TurnEvent is the classified form of an incoming activity. Concrete variants
// implement the unexported isTurnEvent marker enabling a closed set; bots
// switch on the variant instead of scattering string comparisons through
// their control flow.
type TurnEvent interface{ isTurnEvent() }

// UserText is a plain message turn.
type UserText struct {
	Text string
}

func (UserText) isTurnEvent() {}

// ConversationStarted is a membership-change turn with a non-empty added
// member list.
type ConversationStarted struct {
	MemberIDs []string
}

func (ConversationStarted) isTurnEvent() {}

// FacesAnalysed carries the raw "<userId>;<userName>" value of a face
// recognition result. The consumer parses it via vision.ParseFaces and drops
// malformed values as no-ops.
type FacesAnalysed struct {
	Raw string
}

func (FacesAnalysed) isTurnEvent() {}

// EmotionDetected carries a free-text emotion label. Empty or whitespace-only
// labels are ignorable no-ops for the consumer.
type EmotionDetected struct {
	Label string
}

func (EmotionDetected) isTurnEvent() {}

// ImageAnalysed carries the ordered list of detected-object labels from an
// image analysis result.
type ImageAnalysed struct {
	Objects []vision.Object
}

func (ImageAnalysed) isTurnEvent() {}

// ImageAnalysisFailed signals the vision backend could not process an image.
type ImageAnalysisFailed struct{}

func (ImageAnalysisFailed) isTurnEvent() {}

// Unrecognized is anything not matching a known variant. Dispatchers must
// silently ignore it so future event types remain forward compatible.
type Unrecognized struct{}

func (Unrecognized) isTurnEvent() {}

// Classify maps an incoming activity onto the closed TurnEvent set. It is a
// pure function: no side effects, no state. Anything it cannot place,
// including an ImageAnalysed payload that does not decode, classifies as
// Unrecognized.
func Classify(a Activity) TurnEvent {
	switch a.Type {
	case ActivityMessage:
		return UserText{Text: a.Text}

	case ActivityConversationUpdate:
		if len(a.MembersAdded) == 0 {
			return Unrecognized{}
		}
		return ConversationStarted{MemberIDs: a.MembersAdded}

	case ActivityEvent:
		switch a.Name {
		case vision.EventFacesAnalysed:
			return FacesAnalysed{Raw: stringValue(a.Value)}
		case vision.EventNewEmotion:
			return EmotionDetected{Label: stringValue(a.Value)}
		case vision.EventImageAnalysed:
			objects, err := vision.ParseObjects(a.Value)
			if err != nil {
				return Unrecognized{}
			}
			return ImageAnalysed{Objects: objects}
		case vision.EventImageError:
			return ImageAnalysisFailed{}
		}
	}

	return Unrecognized{}
}

// stringValue extracts a string payload from an event value, accepting both a
// JSON-encoded string and raw text for tolerance toward older producers.
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
