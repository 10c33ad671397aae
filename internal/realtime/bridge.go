package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notifyChannel = "gigflow:notify"

// Bridge fans user-directed payloads out to the local hub and, via Redis
// pub/sub, to the hubs of every other running instance.
type Bridge struct {
	RDB        *redis.Client
	Hub        *Hub
	instanceID string
}

func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	return &Bridge{
		RDB:        rdb,
		Hub:        hub,
		instanceID: uuid.New().String(),
	}
}

type envelope struct {
	Origin  string          `json:"origin"`
	UserID  uuid.UUID       `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Publish delivers data to the user's local connections immediately and
// publishes it for the other instances. Redis being down only costs the
// cross-instance delivery.
func (b *Bridge) Publish(userID uuid.UUID, data interface{}) {
	b.Hub.SendToUser(userID, data)

	if b.RDB == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling notification payload: %v", err)
		return
	}

	env, err := json.Marshal(envelope{
		Origin:  b.instanceID,
		UserID:  userID,
		Payload: payload,
	})
	if err != nil {
		log.Printf("Error marshaling notification envelope: %v", err)
		return
	}

	if err := b.RDB.Publish(context.Background(), notifyChannel, env).Err(); err != nil {
		log.Printf("Redis publish failed: %v", err)
	}
}

// Run subscribes to the notify channel and re-delivers messages from other
// instances to the local hub. Messages we published ourselves are skipped.
func (b *Bridge) Run(ctx context.Context) {
	if b.RDB == nil {
		return
	}

	sub := b.RDB.Subscribe(ctx, notifyChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("Invalid notify envelope: %v", err)
			continue
		}
		if env.Origin == b.instanceID {
			continue
		}
		b.Hub.SendRawToUser(env.UserID, []byte(env.Payload))
	}
}
