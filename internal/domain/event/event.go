// Package event defines the notification envelope exchanged over the websocket channel.
package event

import "encoding/json"

// TypeEvent is the only type discriminator the channel carries.
const TypeEvent = "event"

// RefreshTasks tells clients to re-fetch their task lists.
const RefreshTasks = "refresh_tasks"

// Known reports whether name is an event clients understand. Only known
// events may be broadcast from outside the process.
func Known(name string) bool {
	switch name {
	case RefreshTasks:
		return true
	}
	return false
}

// Notification is a fire-and-forget, string-payload event.
// It is used for both inbound control messages and outbound broadcasts.
type Notification struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// New builds the outbound notification for the named event.
func New(name string) Notification {
	return Notification{Type: TypeEvent, Data: name}
}

// Decode parses an inbound frame. It reports false for frames that are not a
// JSON object; such frames are ignored by the caller rather than treated as errors.
func Decode(data []byte) (Notification, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Notification{}, false
	}
	var n Notification
	n.Type, _ = raw["type"].(string)
	n.Data, _ = raw["data"].(string)
	return n, true
}

// IsRefresh reports whether n is the refresh_tasks control event.
func (n Notification) IsRefresh() bool {
	return n.Type == TypeEvent && n.Data == RefreshTasks
}
