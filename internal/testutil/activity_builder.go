package testutil

import (
	"encoding/json"

	"github.com/leeroy79/cog-service-bots/core"
)

// ActivityBuilder provides a fluent helper for constructing activities in tests.
// Example:
//
//	a := NewActivityBuilder().Event("newEmotion").RawValue(`"happiness"`).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ActivityBuilder struct {
	id           string
	activityType core.ActivityType
	text         string
	members      []string
	name         string
	value        json.RawMessage
}

// NewActivityBuilder creates a builder defaulting to a message activity.
func NewActivityBuilder() *ActivityBuilder {
	return &ActivityBuilder{activityType: core.ActivityMessage}
}

// ID overrides the auto-generated activity ID (chainable). Use where determinism matters.
func (b *ActivityBuilder) ID(id string) *ActivityBuilder { b.id = id; return b }

// Message sets the type to message with the given text (chainable).
func (b *ActivityBuilder) Message(text string) *ActivityBuilder {
	b.activityType = core.ActivityMessage
	b.text = text
	return b
}

// MembersAdded sets the type to conversationUpdate with the given members (chainable).
func (b *ActivityBuilder) MembersAdded(ids ...string) *ActivityBuilder {
	b.activityType = core.ActivityConversationUpdate
	b.members = ids
	return b
}

// Event sets the type to event with the given name (chainable).
func (b *ActivityBuilder) Event(name string) *ActivityBuilder {
	b.activityType = core.ActivityEvent
	b.name = name
	return b
}

// Value JSON-encodes the payload onto the event (chainable).
func (b *ActivityBuilder) Value(v any) *ActivityBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		panic("testutil: unmarshalable activity value: " + err.Error())
	}
	b.value = data
	return b
}

// RawValue sets the payload bytes verbatim, allowing malformed JSON (chainable).
func (b *ActivityBuilder) RawValue(raw string) *ActivityBuilder {
	b.value = json.RawMessage(raw)
	return b
}

// Build constructs the core.Activity value.
func (b *ActivityBuilder) Build() core.Activity {
	var a core.Activity
	switch b.activityType {
	case core.ActivityConversationUpdate:
		a = core.NewConversationUpdateActivity(b.members...)
	case core.ActivityEvent:
		a = core.NewEventActivity(b.name, nil)
		a.Value = b.value
	default:
		a = core.NewMessageActivity(b.text)
	}
	if b.id != "" {
		a.ID = b.id
	}
	return a
}
