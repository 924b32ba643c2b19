package models

import "time"

// Sender identifies who authored a chat message. Using a dedicated type
// instead of bare strings keeps the router from ever storing an
// unknown author.
type Sender string

const (
	SenderVisitor Sender = "visitor"
	SenderAdmin   Sender = "admin"
	SenderSystem  Sender = "system"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	switch s {
	case SenderVisitor, SenderAdmin, SenderSystem:
		return true
	}
	return false
}

// Role is the registered role of a chat connection. A freshly upgraded
// connection has RoleNone until it sends a valid register event.
type Role string

const (
	RoleNone    Role = ""
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "user"
)

// ParseRole maps the wire value of a register event to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleVisitor:
		return RoleVisitor, true
	}
	return RoleNone, false
}

// Message is one entry in a visitor's conversation.
type Message struct {
	ID        int64     `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ActiveVisitor is the admin-panel list entry for one visitor conversation.
type ActiveVisitor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Unread      bool   `json:"unread"`
}
