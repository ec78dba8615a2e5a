package amqp

import (
	"encoding/json"
	"time"
)

// Activity event kinds published by the editor and audited by the worker.
const (
	EventItemsReplaced = "items.replaced"
	EventItemAdded     = "item.added"
	EventItemUpdated   = "item.updated"
	EventItemDeleted   = "item.deleted"
	EventClientAdded   = "client.added"
	EventClientDeleted = "client.deleted"
	EventThemeApplied  = "theme.applied"
	EventPDFExported   = "pdf.exported"
)

// ActivityMessage is one editor event on the wire. Detail is a short
// human-readable string (a client name, a filename, a row count), not a
// payload the worker acts on.
type ActivityMessage struct {
	Kind       string    `json:"kind"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewActivityMessage(kind, detail string) *ActivityMessage {
	return &ActivityMessage{
		Kind:       kind,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
}

func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
