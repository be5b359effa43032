package ports

import (
	"context"
	"time"
)

// AccountEvent describes something that happened to an account
type AccountEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	ClientIP string    `json:"client_ip,omitempty"`
	At       time.Time `json:"at"`
}

const (
	EventRegistered = "registered"
	EventLoggedIn   = "logged_in"
	EventLoggedOut  = "logged_out"
)

// EventPublisher publishes account events to notify other instances
type EventPublisher interface {
	Publish(ctx context.Context, event AccountEvent) error
}
