package services

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Routing keys for domain events.
const (
	EventBlogCreated     = "blog.created"
	EventBlogUpdated     = "blog.updated"
	EventBlogLiked       = "blog.liked"
	EventCommentCreated  = "comment.created"
	EventWishlistAdded   = "wishlist.added"
	EventWishlistRemoved = "wishlist.removed"
)

// Publisher sends a message to an exchange. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Event is the envelope published after a successful write.
type Event struct {
	Type       string      `json:"type"`
	ActorEmail string      `json:"actorEmail,omitempty"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Events publishes domain events. A nil *Events or a nil publisher drops
// every event. Publication failures are logged, never returned.
type Events struct {
	publisher Publisher
	exchange  string
	log       zerolog.Logger
}

// NewEvents creates a new Events emitter.
func NewEvents(publisher Publisher, exchange string, log zerolog.Logger) *Events {
	return &Events{
		publisher: publisher,
		exchange:  exchange,
		log:       log,
	}
}

// Emit publishes one event under routingKey.
func (e *Events) Emit(routingKey, actorEmail string, data interface{}) {
	if e == nil || e.publisher == nil {
		return
	}

	body, err := json.Marshal(Event{
		Type:       routingKey,
		ActorEmail: actorEmail,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		e.log.Error().Err(err).Str("event", routingKey).Msg("failed to marshal event")
		return
	}

	if err := e.publisher.Publish(e.exchange, routingKey, body); err != nil {
		e.log.Warn().Err(err).Str("event", routingKey).Msg("failed to publish event")
	}
}
