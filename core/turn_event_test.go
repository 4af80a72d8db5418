package core

import (
	"testing"

	"github.com/leeroy79/cog-service-bots/vision"
)

func TestClassify_MessageAndMembership(t *testing.T) {
	ev := Classify(NewMessageActivity("guess: cat"))
	if ut, ok := ev.(UserText); !ok || ut.Text != "guess: cat" {
		t.Fatalf("expected UserText, got %#v", ev)
	}

	ev = Classify(NewConversationUpdateActivity("bot-123", "user-1"))
	cs, ok := ev.(ConversationStarted)
	if !ok || len(cs.MemberIDs) != 2 {
		t.Fatalf("expected ConversationStarted with 2 members, got %#v", ev)
	}

	// Membership update without additions is not a recognized turn.
	ev = Classify(NewConversationUpdateActivity())
	if _, ok := ev.(Unrecognized); !ok {
		t.Fatalf("expected Unrecognized, got %#v", ev)
	}
}

func TestClassify_VisionEvents(t *testing.T) {
	ev := Classify(NewEventActivity(vision.EventFacesAnalysed, "u42;Ada"))
	fa, ok := ev.(FacesAnalysed)
	if !ok || fa.Raw != "u42;Ada" {
		t.Fatalf("expected FacesAnalysed raw value, got %#v", ev)
	}

	ev = Classify(NewEventActivity(vision.EventNewEmotion, "happiness"))
	if ed, ok := ev.(EmotionDetected); !ok || ed.Label != "happiness" {
		t.Fatalf("expected EmotionDetected, got %#v", ev)
	}

	ev = Classify(NewEventActivity(vision.EventImageAnalysed, []vision.Object{{Obj: "Cat"}, {Obj: "Lamp"}}))
	ia, ok := ev.(ImageAnalysed)
	if !ok || len(ia.Objects) != 2 || ia.Objects[0].Obj != "Cat" {
		t.Fatalf("expected ImageAnalysed with ordered objects, got %#v", ev)
	}

	ev = Classify(NewEventActivity(vision.EventImageError, nil))
	if _, ok := ev.(ImageAnalysisFailed); !ok {
		t.Fatalf("expected ImageAnalysisFailed, got %#v", ev)
	}
}

func TestClassify_UnknownIsUnrecognized(t *testing.T) {
	ev := Classify(NewEventActivity("someFutureEvent", "whatever"))
	if _, ok := ev.(Unrecognized); !ok {
		t.Fatalf("expected Unrecognized for unknown event name, got %#v", ev)
	}

	// Undecodable image payload is ignored rather than surfaced as an error.
	a := NewEventActivity(vision.EventImageAnalysed, nil)
	a.Value = []byte(`{"not":"a list"}`)
	if _, ok := Classify(a).(Unrecognized); !ok {
		t.Fatal("expected Unrecognized for malformed image payload")
	}
}

func TestClassify_EmptyImageListStaysImageAnalysed(t *testing.T) {
	ev := Classify(NewEventActivity(vision.EventImageAnalysed, []vision.Object{}))
	ia, ok := ev.(ImageAnalysed)
	if !ok || len(ia.Objects) != 0 {
		t.Fatalf("expected empty ImageAnalysed, got %#v", ev)
	}
}
