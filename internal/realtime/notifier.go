package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types carried on the push channel.
const (
	EventNewMatch            = "new_match"
	EventMatchesRefresh      = "matches_refresh"
	EventMatchAccepted       = "match_accepted"
	EventMatchRejected       = "match_rejected"
	EventMatchCompleted      = "match_completed"
	EventNotificationCreated = "notification_created"
	EventNotificationRead    = "notification_read"
	EventNotificationDeleted = "notification_deleted"
	EventNewMessage          = "new_message"
)

// Notifier maps domain events to per-user push deliveries. Every delivery is
// best effort: it never fails the originating command, and a user without a
// live connection simply misses the push (the persisted notification remains
// recoverable through the list endpoint). Each push is also mirrored onto a
// redis pub/sub channel keyed by user id so other processes can observe it.
type Notifier struct {
	hub *Hub
	rdb *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{hub: hub, rdb: rdb}
}

// Notify pushes one event to one user.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) {
	body := map[string]interface{}{
		"type": event,
		"data": payload,
	}
	n.hub.SendToUser(userID, body)
	n.publish(ctx, userID, body)
}

// NotifyPair pushes the same event to both participants, once each. A user
// playing both roles receives a single delivery.
func (n *Notifier) NotifyPair(ctx context.Context, a, b uuid.UUID, event string, payload interface{}) {
	n.Notify(ctx, a, event, payload)
	if a != b {
		n.Notify(ctx, b, event, payload)
	}
}

func (n *Notifier) publish(ctx context.Context, userID uuid.UUID, body interface{}) {
	if n.rdb == nil {
		return
	}
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("notifier: marshal: %v", err)
		return
	}
	if err := n.rdb.Publish(ctx, "notifications:"+userID.String(), payload).Err(); err != nil {
		// push delivery must never fail the originating command
		log.Printf("notifier: redis publish for %s: %v", userID, err)
	}
}
