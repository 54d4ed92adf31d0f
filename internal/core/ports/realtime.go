package ports

import (
	"context"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// ChannelState is the lifecycle state of the realtime connection.
type ChannelState string

const (
	StateDisconnected ChannelState = "disconnected"
	StateConnecting   ChannelState = "connecting"
	StateConnected    ChannelState = "connected"
	StateReconnecting ChannelState = "reconnecting"
)

// RealtimeChannel delivers backend invalidation events.
type RealtimeChannel interface {
	Connect(ctx context.Context)
	Disconnect()
	State() ChannelState
	Events() <-chan domain.RealtimeEvent
}

// EventHandler processes one realtime event.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.RealtimeEvent) error
}
