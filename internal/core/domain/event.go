package domain

import "encoding/json"

// EventKind identifies the slice of state a realtime event invalidates.
type EventKind string

const (
	EventOrder EventKind = "order"
	EventShift EventKind = "shift"
)

// EventAction is what happened to the entity.
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// RealtimeEvent is an invalidation signal pushed by the backend. The payload
// is kept raw; consumers refetch rather than patch.
type RealtimeEvent struct {
	Kind    EventKind       `json:"type"`
	Action  EventAction     `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
