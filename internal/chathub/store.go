package chathub

import (
	"errors"
	"sort"
	"time"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
)

// ErrUnknownVisitor is returned when the admin addresses a visitor that
// never opened a conversation.
var ErrUnknownVisitor = errors.New("unknown visitor")

// ConversationStore keeps per-visitor message history plus the admin panel's
// unread and selection state. The hub goroutine is the only caller, so
// implementations don't need to be safe for concurrent use. The interface
// exists so a durable backend can replace the in-memory one without touching
// the router.
type ConversationStore interface {
	// AppendVisitorMessage records a visitor-authored message, lazily
	// creating the conversation and its panel entry. It reports whether
	// the conversation was newly created.
	AppendVisitorMessage(visitorID, displayName, text string, ts time.Time) (models.Message, bool)

	// OpenConversation creates an empty conversation and panel entry for
	// the visitor if none exists yet. Used when the admin writes first.
	OpenConversation(visitorID, displayName string, ts time.Time)

	// AppendAdminMessage records an admin reply. The visitor must already
	// have a conversation.
	AppendAdminMessage(visitorID, text string, ts time.Time) (models.Message, error)

	// SelectVisitor marks the visitor read, remembers it as the selected
	// conversation, and returns its history sorted by timestamp. An empty
	// id clears the selection (admin panel closed). The second return is
	// false when the visitor is unknown.
	SelectVisitor(visitorID string) ([]models.Message, bool)

	// Selected returns the currently selected visitor id, "" when none.
	Selected() string

	// RemoveVisitor drops the conversation and its panel entry, returning
	// the discarded history so the caller may archive it.
	RemoveVisitor(visitorID string) ([]models.Message, bool)

	// ActiveVisitors returns the panel entries, newest conversation first.
	ActiveVisitors() []models.ActiveVisitor

	// UnreadCount is the badge number for the closed-widget icon.
	UnreadCount() int
}

type conversation struct {
	entry    models.ActiveVisitor
	messages []models.Message
}

// MemoryStore is the process-local ConversationStore. Conversations and
// panel entries live and die together; there is no path that creates one
// without the other.
type MemoryStore struct {
	conversations map[string]*conversation
	order         []string // visitor ids, oldest conversation first
	selected      string
	lastID        int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string]*conversation)}
}

// nextID derives a monotone message id from the clock. Two messages within
// the same millisecond still get distinct, increasing ids.
func (s *MemoryStore) nextID(ts time.Time) int64 {
	id := ts.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *MemoryStore) AppendVisitorMessage(visitorID, displayName, text string, ts time.Time) (models.Message, bool) {
	conv, ok := s.conversations[visitorID]
	created := false
	if !ok {
		conv = &conversation{
			entry: models.ActiveVisitor{ID: visitorID, DisplayName: displayName},
		}
		s.conversations[visitorID] = conv
		s.order = append(s.order, visitorID)
		created = true
	}

	msg := models.Message{
		ID:        s.nextID(ts),
		Sender:    models.SenderVisitor,
		Text:      text,
		Timestamp: ts,
	}
	conv.messages = append(conv.messages, msg)

	// Unread unless the admin panel is open on exactly this conversation.
	if s.selected != visitorID {
		conv.entry.Unread = true
	}

	return msg, created
}

func (s *MemoryStore) OpenConversation(visitorID, displayName string, ts time.Time) {
	if _, ok := s.conversations[visitorID]; ok {
		return
	}
	s.conversations[visitorID] = &conversation{
		entry: models.ActiveVisitor{ID: visitorID, DisplayName: displayName},
	}
	s.order = append(s.order, visitorID)
}

func (s *MemoryStore) AppendAdminMessage(visitorID, text string, ts time.Time) (models.Message, error) {
	conv, ok := s.conversations[visitorID]
	if !ok {
		return models.Message{}, ErrUnknownVisitor
	}

	msg := models.Message{
		ID:        s.nextID(ts),
		Sender:    models.SenderAdmin,
		Text:      text,
		Timestamp: ts,
	}
	conv.messages = append(conv.messages, msg)
	return msg, nil
}

func (s *MemoryStore) SelectVisitor(visitorID string) ([]models.Message, bool) {
	if visitorID == "" {
		s.selected = ""
		return nil, true
	}

	conv, ok := s.conversations[visitorID]
	if !ok {
		return nil, false
	}

	s.selected = visitorID
	conv.entry.Unread = false

	history := make([]models.Message, len(conv.messages))
	copy(history, conv.messages)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history, true
}

func (s *MemoryStore) Selected() string { return s.selected }

func (s *MemoryStore) RemoveVisitor(visitorID string) ([]models.Message, bool) {
	conv, ok := s.conversations[visitorID]
	if !ok {
		return nil, false
	}

	delete(s.conversations, visitorID)
	for i, id := range s.order {
		if id == visitorID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.selected == visitorID {
		s.selected = ""
	}
	return conv.messages, true
}

func (s *MemoryStore) ActiveVisitors() []models.ActiveVisitor {
	out := make([]models.ActiveVisitor, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.conversations[s.order[i]].entry)
	}
	return out
}

func (s *MemoryStore) UnreadCount() int {
	count := 0
	for _, conv := range s.conversations {
		if conv.entry.Unread {
			count++
		}
	}
	return count
}
