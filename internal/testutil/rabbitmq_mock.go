package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/WailSalutem-Health-Care/membership-service/internal/messaging"
)

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	RawJSON    []byte
}

var _ messaging.PublisherInterface = (*MockPublisher)(nil)

// MockPublisher records events in memory. It is safe for concurrent use.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	// Err, when set, is returned by Publish after the event is recorded.
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event together with its JSON encoding, so payloads
// that would not serialize fail the same way they would against a broker.
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, EventData: eventData, RawJSON: raw})
	return m.Err
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) byKey(routingKey string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PublishedEvent
	for _, ev := range m.events {
		if ev.RoutingKey == routingKey {
			out = append(out, ev)
		}
	}
	return out
}

// GetEventCount returns the number of events recorded under any key.
func (m *MockPublisher) GetEventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// GetLastEventByKey returns the newest event for routingKey, or nil.
func (m *MockPublisher) GetLastEventByKey(routingKey string) *PublishedEvent {
	evs := m.byKey(routingKey)
	if len(evs) == 0 {
		return nil
	}
	return &evs[len(evs)-1]
}

// DecodeLast unmarshals the newest routingKey payload into target.
func (m *MockPublisher) DecodeLast(t *testing.T, routingKey string, target interface{}) {
	t.Helper()

	ev := m.GetLastEventByKey(routingKey)
	if ev == nil {
		t.Fatalf("No %q event was published", routingKey)
	}
	if err := json.Unmarshal(ev.RawJSON, target); err != nil {
		t.Fatalf("Failed to decode %q event: %v", routingKey, err)
	}
}

func (m *MockPublisher) AssertEventPublished(t *testing.T, routingKey string) {
	t.Helper()
	if len(m.byKey(routingKey)) == 0 {
		t.Errorf("Expected a %q event, found none", routingKey)
	}
}

func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()
	if got := len(m.byKey(routingKey)); got != expected {
		t.Errorf("Expected %d %q events, got %d", expected, routingKey, got)
	}
}

func (m *MockPublisher) AssertEventNotPublished(t *testing.T, routingKey string) {
	t.Helper()
	if got := len(m.byKey(routingKey)); got != 0 {
		t.Errorf("Expected no %q events, got %d", routingKey, got)
	}
}
