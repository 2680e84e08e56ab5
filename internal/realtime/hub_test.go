package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/realtime"
)

func newClient(userID uuid.UUID) *realtime.Client {
	return &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func recv(t *testing.T, c *realtime.Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.Send:
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("unmarshal push: %v", err)
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for push")
		return nil
	}
}

func waitRegistered(t *testing.T, hub *realtime.Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount(userID) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("user %s never reached %d connections", userID, want)
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()

	user := uuid.New()
	c1 := newClient(user)
	c2 := newClient(user)
	hub.RegisterClient(c1)
	hub.RegisterClient(c2)
	waitRegistered(t, hub, user, 2)

	hub.SendToUser(user, map[string]string{"type": "ping"})

	for _, c := range []*realtime.Client{c1, c2} {
		m := recv(t, c)
		if m["type"] != "ping" {
			t.Fatalf("expected ping, got %v", m)
		}
	}
}

func TestSendToUserWithoutConnectionIsNoop(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()

	// must not block or panic
	hub.SendToUser(uuid.New(), map[string]string{"type": "ping"})
}

func TestSendToPairDeduplicatesSelfPair(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()

	user := uuid.New()
	c := newClient(user)
	hub.RegisterClient(c)
	waitRegistered(t, hub, user, 1)

	hub.SendToPair(user, user, map[string]string{"type": "match"})

	recv(t, c)
	select {
	case <-c.Send:
		t.Fatal("self-pair must receive exactly one delivery")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()

	user := uuid.New()
	c := newClient(user)
	hub.RegisterClient(c)
	waitRegistered(t, hub, user, 1)

	hub.UnregisterClient(c)
	waitRegistered(t, hub, user, 0)

	hub.SendToUser(user, map[string]string{"type": "ping"})

	if _, ok := <-c.Send; ok {
		t.Fatal("send channel should be closed after unregister")
	}
}

func TestFullBufferDoesNotBlockSender(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()

	user := uuid.New()
	c := &realtime.Client{ID: uuid.New().String(), UserID: user, Send: make(chan []byte)}
	hub.RegisterClient(c)
	waitRegistered(t, hub, user, 1)

	done := make(chan struct{})
	go func() {
		// nobody reads c.Send; the unbuffered channel is always "full"
		hub.SendToUser(user, map[string]string{"type": "ping"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendToUser blocked on a saturated connection")
	}
}
