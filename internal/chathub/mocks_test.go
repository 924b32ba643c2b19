package chathub_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
)

// mockClient is a test double for the chathub.Client interface. Events the
// hub sends to it pile up in Recv for assertions.
type mockClient struct {
	id   string
	role models.Role
	Recv chan models.Envelope
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:   id,
		Recv: make(chan models.Envelope, 32), // buffered to prevent blocking in tests
	}
}

func (c *mockClient) GetID() string                          { return c.id }
func (c *mockClient) GetRole() models.Role                   { return c.role }
func (c *mockClient) SetRole(r models.Role)                  { c.role = r }
func (c *mockClient) GetSendChannel() chan<- models.Envelope { return c.Recv }

func (c *mockClient) Run() {
	// Not needed for testing
}

func (c *mockClient) Close() {
	// Not needed for testing
}

// drain empties the receive buffer and returns everything seen so far.
func (c *mockClient) drain() []models.Envelope {
	var out []models.Envelope
	for {
		select {
		case env := <-c.Recv:
			out = append(out, env)
		default:
			return out
		}
	}
}

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ArchiveConversation(visitorID, displayName string, msgs []models.Message) error {
	args := m.Called(visitorID, displayName, msgs)
	return args.Error(0)
}

func (m *MockStorage) ListArchivedConversations(limit int) ([]models.ArchivedConversation, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ArchivedConversation), args.Error(1)
}

func (m *MockStorage) GetArchivedConversation(id uint) (*models.ArchivedConversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArchivedConversation), args.Error(1)
}

func (m *MockStorage) PurgeArchive(olderThan time.Time) (int64, error) {
	args := m.Called(olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) AllowVisitorMessage(visitorID string) (bool, error) {
	args := m.Called(visitorID)
	return args.Bool(0), args.Error(1)
}

// mustEnvelope builds an inbound envelope or fails the test.
func mustEnvelope(t *testing.T, event string, payload any) models.Envelope {
	t.Helper()
	env, err := models.NewEnvelope(event, payload)
	require.NoError(t, err)
	return env
}

// decodePayload unmarshals an envelope payload into out.
func decodePayload(t *testing.T, env models.Envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Payload, out))
}

// findEvent returns the first envelope with the given event name.
func findEvent(envs []models.Envelope, event string) (models.Envelope, bool) {
	for _, env := range envs {
		if env.Event == event {
			return env, true
		}
	}
	return models.Envelope{}, false
}
