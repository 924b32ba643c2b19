// Package chathub is the real-time core of the dashboard's support chat:
// a session registry, a per-visitor conversation store, and the router that
// bridges one logical admin console to many anonymous visitor sessions.
// All chat state is owned by a single goroutine (Run); everything reaches it
// through channels, so the registry and store need no locks.
package chathub

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/localization"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/storage"
)

// Inbound is one decoded event from a live connection.
type Inbound struct {
	Client   Client
	Envelope models.Envelope
}

// Stats is a point-in-time snapshot of the hub, served through the Run loop.
type Stats struct {
	Visitors      int
	Conversations int
	Unread        int
	AdminOnline   bool
}

// OfflineNotifier is told about visitor messages that arrived while no
// admin console was connected.
type OfflineNotifier interface {
	NotifyOfflineMessage(displayName, text string)
}

// AdminAuthorizer verifies the dashboard token presented on admin
// registration. A nil authorizer lets any connection claim the admin role;
// main always wires one.
type AdminAuthorizer func(token string) error

// Hub owns all chat state. Multiple concurrent admin connections are
// accepted and treated as tabs of the same logical console: all of them
// receive visitor fan-out and they share one selection/unread state.
type Hub struct {
	// connections by id; a client lives in exactly one of these
	pending  map[string]Client
	visitors map[string]Client
	admins   map[string]Client

	store ConversationStore

	RegisterCh   chan Client
	UnregisterCh chan Client
	InboundCh    chan Inbound
	StatsCh      chan chan Stats

	// collaborators, all optional except the store
	Storage   storage.Storage
	Notifier  OfflineNotifier
	Authorize AdminAuthorizer

	Localizer *localization.Localizer
	Lang      string
}

func NewHub(store ConversationStore, loc *localization.Localizer, lang string) *Hub {
	return &Hub{
		pending:      make(map[string]Client),
		visitors:     make(map[string]Client),
		admins:       make(map[string]Client),
		store:        store,
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		InboundCh:    make(chan Inbound),
		StatsCh:      make(chan chan Stats),
		Localizer:    loc,
		Lang:         lang,
	}
}

// Run is the hub's event loop. It must be the only goroutine that touches
// the maps and the store.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.RegisterCh:
			h.pending[c.GetID()] = c

		case c := <-h.UnregisterCh:
			h.handleDisconnect(c)

		case in := <-h.InboundCh:
			h.dispatch(in.Client, in.Envelope)

		case reply := <-h.StatsCh:
			reply <- h.snapshot()
		}
	}
}

// Stats asks the Run loop for a snapshot. Safe to call from any goroutine.
func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	h.StatsCh <- reply
	return <-reply
}

func (h *Hub) snapshot() Stats {
	return Stats{
		Visitors:      len(h.visitors),
		Conversations: len(h.store.ActiveVisitors()),
		Unread:        h.store.UnreadCount(),
		AdminOnline:   len(h.admins) > 0,
	}
}

func (h *Hub) handleDisconnect(c Client) {
	id := c.GetID()

	switch {
	case h.pending[id] == c:
		delete(h.pending, id)
	case h.visitors[id] == c:
		delete(h.visitors, id)
		// History stays in the store; a reconnect gets a new identity
		// and a fresh conversation.
	case h.admins[id] == c:
		delete(h.admins, id)
		if len(h.admins) == 0 {
			h.broadcastToVisitors(models.EventAdminStatus, models.AdminOffline)
		}
	default:
		return // already gone
	}

	c.Close()
}

func (h *Hub) dispatch(c Client, env models.Envelope) {
	switch env.Event {
	case models.EventRegister:
		h.handleRegister(c, env.Payload)
	case models.EventUserMessage:
		h.handleVisitorMessage(c, env.Payload)
	case models.EventAdminResponse:
		h.handleAdminResponse(c, env.Payload)
	case models.EventSelectVisitor:
		h.handleSelectVisitor(c, env.Payload)
	case models.EventRemoveVisitor:
		h.handleRemoveVisitor(c, env.Payload)
	default:
		log.Printf("unknown event %q from %s", env.Event, c.GetID())
	}
}

func (h *Hub) handleRegister(c Client, payload json.RawMessage) {
	if c.GetRole() != models.RoleNone {
		log.Printf("connection %s tried to register twice", c.GetID())
		return
	}

	var p models.RegisterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("malformed register payload from %s: %v", c.GetID(), err)
		return
	}

	role, ok := models.ParseRole(p.Type)
	if !ok {
		// Stays pending and excluded from routing until a valid register.
		log.Printf("register with invalid type %q from %s", p.Type, c.GetID())
		return
	}

	id := c.GetID()

	switch role {
	case models.RoleAdmin:
		if h.Authorize != nil {
			if err := h.Authorize(p.Token); err != nil {
				log.Printf("rejected admin registration from %s: %v", id, err)
				return
			}
		}
		delete(h.pending, id)
		h.admins[id] = c
		c.SetRole(models.RoleAdmin)

		h.send(c, models.EventRegistered, models.RegisteredPayload{ID: id})
		h.pushVisitorList(c)
		if len(h.admins) == 1 {
			h.broadcastToVisitors(models.EventAdminStatus, models.AdminOnline)
		}

	case models.RoleVisitor:
		delete(h.pending, id)
		h.visitors[id] = c
		c.SetRole(models.RoleVisitor)

		h.send(c, models.EventRegistered, models.RegisteredPayload{
			ID:          id,
			DisplayName: h.displayName(id),
		})
		status := models.AdminOffline
		if len(h.admins) > 0 {
			status = models.AdminOnline
		}
		h.send(c, models.EventAdminStatus, status)
	}
}

func (h *Hub) handleVisitorMessage(c Client, payload json.RawMessage) {
	id := c.GetID()
	if h.visitors[id] != c {
		log.Printf("user-message from unregistered connection %s dropped", id)
		return
	}

	// The payload is the bare message text; the identity comes from the
	// registry binding, never from the event.
	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		log.Printf("malformed user-message from %s: %v", id, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	now := time.Now()

	if h.Storage != nil {
		allowed, err := h.Storage.AllowVisitorMessage(id)
		if err != nil {
			// Fail open: flood control is advisory.
			log.Printf("flood check for %s failed: %v", id, err)
			allowed = true
		}
		if !allowed {
			h.sendSystemNote(c, "rate_limited_note", now)
			return
		}
	}

	name := h.displayName(id)
	_, created := h.store.AppendVisitorMessage(id, name, text, now)

	if len(h.admins) == 0 {
		// Nothing is queued for a later admin; the visitor just gets
		// the "answered later" note.
		h.sendSystemNote(c, "offline_note", now)
		if h.Notifier != nil {
			go h.Notifier.NotifyOfflineMessage(name, text)
		}
		return
	}

	h.broadcastToAdmins(models.EventNewMessage, models.NewMessagePayload{
		From:      id,
		Message:   text,
		Timestamp: now,
	})
	if created && h.store.Selected() != id {
		h.broadcastToAdmins(models.EventToast, models.ToastPayload{
			From:        id,
			DisplayName: name,
			Preview:     text,
		})
	}
	h.pushVisitorListToAdmins()
}

func (h *Hub) handleAdminResponse(c Client, payload json.RawMessage) {
	if h.admins[c.GetID()] != c {
		log.Printf("admin-response from unregistered connection %s dropped", c.GetID())
		return
	}

	var p models.AdminResponsePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("malformed admin-response from %s: %v", c.GetID(), err)
		return
	}
	if p.To == "" || strings.TrimSpace(p.Message) == "" {
		return
	}

	target, ok := h.visitors[p.To]
	if !ok {
		// Resolve miss: dropped silently, store untouched.
		log.Printf("dropping reply to disconnected visitor %s", p.To)
		return
	}

	now := time.Now()

	// The admin may open the conversation: a connected visitor who never
	// wrote still has an identity to reply to.
	h.store.OpenConversation(p.To, h.displayName(p.To), now)
	if _, err := h.store.AppendAdminMessage(p.To, p.Message, now); err != nil {
		log.Printf("failed to append admin message for %s: %v", p.To, err)
		return
	}

	h.send(target, models.EventResponse, models.ResponsePayload{
		Message:   p.Message,
		Timestamp: now,
	})
	h.pushVisitorListToAdmins()
}

func (h *Hub) handleSelectVisitor(c Client, payload json.RawMessage) {
	if h.admins[c.GetID()] != c {
		return
	}

	var p models.VisitorRefPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("malformed select-visitor from %s: %v", c.GetID(), err)
		return
	}

	history, ok := h.store.SelectVisitor(p.ID)
	if !ok {
		log.Printf("select-visitor for unknown visitor %s", p.ID)
		return
	}

	if p.ID != "" {
		h.send(c, models.EventHistory, models.HistoryPayload{ID: p.ID, Messages: history})
	}
	h.pushVisitorListToAdmins()
}

func (h *Hub) handleRemoveVisitor(c Client, payload json.RawMessage) {
	if h.admins[c.GetID()] != c {
		return
	}

	var p models.VisitorRefPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("malformed remove-visitor from %s: %v", c.GetID(), err)
		return
	}

	history, ok := h.store.RemoveVisitor(p.ID)
	if !ok {
		return
	}

	if h.Storage != nil && len(history) > 0 {
		name := h.displayName(p.ID)
		go func(id string, msgs []models.Message) {
			if err := h.Storage.ArchiveConversation(id, name, msgs); err != nil {
				log.Printf("failed to archive conversation %s: %v", id, err)
			}
		}(p.ID, history)
	}

	h.pushVisitorListToAdmins()
}

// displayName derives the visitor's panel name from the tail of its identity.
func (h *Hub) displayName(id string) string {
	tail := id
	if len(id) > 4 {
		tail = id[len(id)-4:]
	}
	return h.Localizer.Get(h.Lang, "visitor_prefix") + " " + tail
}

func (h *Hub) sendSystemNote(c Client, key string, ts time.Time) {
	h.send(c, models.EventSystemNote, models.SystemNotePayload{
		Message:   h.Localizer.Get(h.Lang, key),
		Timestamp: ts,
	})
}

func (h *Hub) pushVisitorList(c Client) {
	h.send(c, models.EventVisitorList, models.VisitorListPayload{
		Visitors: h.store.ActiveVisitors(),
		Unread:   h.store.UnreadCount(),
	})
}

func (h *Hub) pushVisitorListToAdmins() {
	for _, admin := range h.admins {
		h.pushVisitorList(admin)
	}
}

func (h *Hub) broadcastToAdmins(event string, payload any) {
	for _, admin := range h.admins {
		h.send(admin, event, payload)
	}
}

func (h *Hub) broadcastToVisitors(event string, payload any) {
	for _, visitor := range h.visitors {
		h.send(visitor, event, payload)
	}
}

// send never blocks the loop: a client whose send buffer is full simply
// misses the event.
func (h *Hub) send(c Client, event string, payload any) {
	env, err := models.NewEnvelope(event, payload)
	if err != nil {
		log.Printf("error encoding %s event: %v", event, err)
		return
	}
	select {
	case c.GetSendChannel() <- env:
	default:
		log.Printf("send buffer full for %s, dropping %s", c.GetID(), event)
	}
}
