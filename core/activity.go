package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityType discriminates the kind of turn delivered by the transport.
type ActivityType string

const (
	// ActivityMessage is a plain user message turn.
	ActivityMessage ActivityType = "message"

	// ActivityConversationUpdate is a membership-change turn.
	ActivityConversationUpdate ActivityType = "conversationUpdate"

	// ActivityEvent is a named out-of-band event turn carrying an opaque value.
	ActivityEvent ActivityType = "event"
)

// Activity is the turn envelope: one discrete unit of conversation input or
// output. Incoming activities are produced by the transport; outgoing
// activities are buffered on the TurnContext and returned to the caller.
//
// Only the fields matching the Type are populated: Text for messages,
// MembersAdded for conversation updates, Name/Value for events.
type Activity struct {
	ID           string          `json:"id"`
	Type         ActivityType    `json:"type"`
	Text         string          `json:"text,omitempty"`
	MembersAdded []string        `json:"members_added,omitempty"`
	Name         string          `json:"name,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewID generates a new unique identifier for activities and turns.
func NewID() string { return uuid.NewString() }

func newActivity(t ActivityType) Activity {
	return Activity{ID: NewID(), Type: t, Timestamp: time.Now().UTC()}
}

// NewMessageActivity creates a user message turn.
func NewMessageActivity(text string) Activity {
	a := newActivity(ActivityMessage)
	a.Text = text
	return a
}

// NewConversationUpdateActivity creates a membership-change turn listing the
// added member identifiers.
func NewConversationUpdateActivity(memberIDs ...string) Activity {
	a := newActivity(ActivityConversationUpdate)
	a.MembersAdded = memberIDs
	return a
}

// NewEventActivity creates a named-event turn. The value is JSON encoded; a
// nil value yields an event with no payload. Encoding failures are not
// possible for the payload shapes the vision collaborator produces, so a
// failed marshal leaves Value empty rather than returning an error.
func NewEventActivity(name string, value any) Activity {
	a := newActivity(ActivityEvent)
	a.Name = name
	if value != nil {
		if data, err := json.Marshal(value); err == nil {
			a.Value = data
		}
	}
	return a
}

// NewReplyActivity creates an outbound text message.
func NewReplyActivity(text string) Activity {
	a := newActivity(ActivityMessage)
	a.Text = text
	return a
}
