package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans analysis results out to websocket subscribers, keyed by athlete.
// With redis configured, broadcasts also publish to a per-athlete channel so
// every instance forwards to its own subscribers.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	AthleteKey string
	Send       chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(athleteKey string) *Client {
	client := &Client{
		AthleteKey: athleteKey,
		Send:       make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[athleteKey] == nil {
		h.clients[athleteKey] = map[*Client]struct{}{}
	}
	h.clients[athleteKey][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if athleteClients, ok := h.clients[client.AthleteKey]; ok {
		delete(athleteClients, client)
		if len(athleteClients) == 0 {
			delete(h.clients, client.AthleteKey)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(athleteKey string, payload []byte) {
	// send while holding the lock so an Unregister cannot close Send
	// between the snapshot and the send
	h.mu.RLock()
	for client := range h.clients[athleteKey] {
		select {
		case client.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(athleteKey), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "analysis:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		athleteKey := athleteKeyFromChannel(msg.Channel)
		h.mu.RLock()
		for client := range h.clients[athleteKey] {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(athleteKey string) string {
	return "analysis:" + athleteKey + ":broadcast"
}

func athleteKeyFromChannel(ch string) string {
	// analysis:{athlete}:broadcast
	const prefix = "analysis:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
