package chathub

import "github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"

// Client is the interface for one live widget connection. It abstracts the
// underlying transport so the hub can manage real WebSocket connections and
// test doubles uniformly.
type Client interface {
	// GetID returns the connection identifier assigned at upgrade time.
	// For visitor connections this is the VisitorIdentity used for routing.
	GetID() string

	// GetRole returns the role bound by the hub, or models.RoleNone while
	// the connection has not sent a valid register event.
	GetRole() models.Role
	// SetRole binds the role. Called only by the hub goroutine.
	SetRole(models.Role)

	// GetSendChannel returns the channel the hub writes outbound events to.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the client down and releases its send channel.
	Close()
}
