// Package notifier turns order events into direct messages. Delivery is
// best effort: a failed send is logged and the event is still committed, it
// never rolls back the transition that produced it.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/guildsmith/craftbot/internal/guild"
	kafkax "github.com/guildsmith/craftbot/internal/kafka"
	"github.com/guildsmith/craftbot/internal/redisx"
)

// Sink delivers one message to one member. Implementations own the
// platform-specific transport.
type Sink interface {
	Notify(ctx context.Context, targetID, message string) error
}

type Service struct {
	Redis *redis.Client
	Sink  Sink
}

// HandleOrderEvent is mounted as the consumer handler for the order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env guild.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	if s.seen(ctx, env.EventID) {
		return nil
	}

	target, msg, err := render(env)
	if err != nil {
		return err
	}
	if target == "" {
		return nil // event type carries no DM
	}

	if err := s.Sink.Notify(ctx, target, msg); err != nil {
		log.Printf("notify %s for event %s: %v", target, env.EventID, err)
	}
	return nil
}

func render(env guild.Envelope) (target, msg string, err error) {
	switch env.EventType {
	case guild.EventOrderAssigned:
		p, err := kafkax.UnwrapPayload[guild.OrderAssignedPayload](env.Payload)
		if err != nil {
			return "", "", err
		}
		msg := fmt.Sprintf(
			"New task assigned! You have been given order %s: %s. Use /orders to see your task list and /complete when finished.",
			p.OrderID, p.ItemName)
		return p.AssigneeID, msg, nil
	case guild.EventOrderReady:
		p, err := kafkax.UnwrapPayload[guild.OrderReadyPayload](env.Payload)
		if err != nil {
			return "", "", err
		}
		msg := fmt.Sprintf(
			"Your order is ready for pickup! %s (order %s) has been completed. Use /pickup to confirm receipt.",
			p.ItemName, p.OrderID)
		return p.RequesterID, msg, nil
	default:
		return "", "", nil
	}
}

func (s *Service) seen(ctx context.Context, eventID string) bool {
	if s.Redis == nil || eventID == "" {
		return false
	}
	key := fmt.Sprintf(redisx.KeyDedup, "notifier", eventID)
	exists, err := redisx.Exists(ctx, s.Redis, key)
	if err != nil {
		return false
	}
	if exists {
		return true
	}
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false
}
