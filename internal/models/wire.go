package models

import (
	"encoding/json"
	"time"
)

// Event names exchanged over the widget channel.
const (
	// client -> server
	EventRegister      = "register"
	EventUserMessage   = "user-message"
	EventAdminResponse = "admin-response"
	EventSelectVisitor = "select-visitor"
	EventRemoveVisitor = "remove-visitor"

	// server -> client
	EventRegistered  = "registered"
	EventNewMessage  = "new-message"
	EventResponse    = "response"
	EventAdminStatus = "admin-status"
	EventVisitorList = "visitor-list"
	EventHistory     = "history"
	EventToast       = "toast"
	EventSystemNote  = "system-note"
)

// AdminStatus payload values.
const (
	AdminOnline  = "online"
	AdminOffline = "offline"
)

// Envelope is the frame every widget event travels in.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into a ready-to-send Envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Payload: raw}, nil
}

// RegisterPayload binds a connection to a role. Token carries the dashboard
// JWT and is required for the admin role.
type RegisterPayload struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// RegisteredPayload acknowledges a successful registration.
type RegisteredPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// AdminResponsePayload targets one visitor with an admin reply.
type AdminResponsePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// VisitorRefPayload addresses one visitor conversation (select / remove).
// An empty ID on select means the admin panel was closed.
type VisitorRefPayload struct {
	ID string `json:"id"`
}

// NewMessagePayload fans a visitor message out to the admin console.
type NewMessagePayload struct {
	From      string    `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"` // RFC 3339, the profile the widget expects
}

// ResponsePayload delivers an admin reply to its visitor.
type ResponsePayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// VisitorListPayload is the admin panel's conversation list plus the badge
// count shown on the closed-widget icon.
type VisitorListPayload struct {
	Visitors []ActiveVisitor `json:"visitors"`
	Unread   int             `json:"unread"`
}

// HistoryPayload returns a full conversation after select-visitor.
type HistoryPayload struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// ToastPayload announces a brand-new conversation the admin is not viewing.
type ToastPayload struct {
	From        string `json:"from"`
	DisplayName string `json:"displayName"`
	Preview     string `json:"preview"`
}

// SystemNotePayload is a server-authored note on the visitor channel, e.g.
// the "will be answered later" notice when no admin is online.
type SystemNotePayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
