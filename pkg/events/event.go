package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentChangedEvent is emitted whenever the document store is mutated.
// The action mirrors the audit ledger action for the same mutation.
func NewDocumentChangedEvent(action string, documentKey string, staffId string) Event {
	return BaseEvent{
		Type: "DOCUMENT_CHANGED",
		Data: map[string]interface{}{
			"action":       action,
			"document_key": documentKey,
			"staff_id":     staffId,
		},
		OccurredAt: time.Now(),
	}
}

// NewIndexCommittedEvent is emitted after the retrieval index swaps to a new version.
func NewIndexCommittedEvent(versionId string, chunkCount int, staffId string) Event {
	return BaseEvent{
		Type: "INDEX_COMMITTED",
		Data: map[string]interface{}{
			"version_id":  versionId,
			"chunk_count": chunkCount,
			"staff_id":    staffId,
		},
		OccurredAt: time.Now(),
	}
}
