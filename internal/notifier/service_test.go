package notifier

import (
	"context"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/guildsmith/craftbot/internal/guild"
	kafkax "github.com/guildsmith/craftbot/internal/kafka"
)

type memSink struct {
	targets  []string
	messages []string
	err      error
}

func (s *memSink) Notify(_ context.Context, targetID, message string) error {
	s.targets = append(s.targets, targetID)
	s.messages = append(s.messages, message)
	return s.err
}

func envelope(eventType string, payload any) kafkago.Message {
	env := guild.Envelope{
		EventID:      "ev-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestService_HandleOrderEvent_Assigned(t *testing.T) {
	sink := &memSink{}
	svc := &Service{Sink: sink}

	m := envelope(guild.EventOrderAssigned, guild.OrderAssignedPayload{
		OrderID:    "o-1",
		ItemName:   "Iron Sword",
		AssigneeID: "W1",
		AssignedBy: "S1",
		Profession: "Herrero",
	})
	if err := svc.HandleOrderEvent(context.Background(), m); err != nil {
		t.Fatalf("HandleOrderEvent: %v", err)
	}
	if len(sink.targets) != 1 || sink.targets[0] != "W1" {
		t.Fatalf("targets = %v, want [W1]", sink.targets)
	}
	for _, want := range []string{"o-1", "Iron Sword"} {
		if !strings.Contains(sink.messages[0], want) {
			t.Errorf("message %q missing %q", sink.messages[0], want)
		}
	}
}

func TestService_HandleOrderEvent_Ready(t *testing.T) {
	sink := &memSink{}
	svc := &Service{Sink: sink}

	m := envelope(guild.EventOrderReady, guild.OrderReadyPayload{
		OrderID:     "o-2",
		ItemName:    "Alba Robe",
		RequesterID: "U1",
	})
	if err := svc.HandleOrderEvent(context.Background(), m); err != nil {
		t.Fatalf("HandleOrderEvent: %v", err)
	}
	if len(sink.targets) != 1 || sink.targets[0] != "U1" {
		t.Fatalf("targets = %v, want [U1]", sink.targets)
	}
	if !strings.Contains(sink.messages[0], "ready for pickup") {
		t.Errorf("message = %q", sink.messages[0])
	}
}

func TestService_HandleOrderEvent_IgnoresOtherTypes(t *testing.T) {
	sink := &memSink{}
	svc := &Service{Sink: sink}

	m := envelope(guild.EventOrderCreated, guild.OrderCreatedPayload{OrderID: "o-3"})
	if err := svc.HandleOrderEvent(context.Background(), m); err != nil {
		t.Fatalf("HandleOrderEvent: %v", err)
	}
	if len(sink.targets) != 0 {
		t.Errorf("targets = %v, want none", sink.targets)
	}
}

// A failing sink must not fail the handler: delivery is best effort and the
// offset is still committed.
func TestService_HandleOrderEvent_SinkFailureSwallowed(t *testing.T) {
	sink := &memSink{err: context.DeadlineExceeded}
	svc := &Service{Sink: sink}

	m := envelope(guild.EventOrderReady, guild.OrderReadyPayload{
		OrderID: "o-4", ItemName: "Iron Sword", RequesterID: "U1",
	})
	if err := svc.HandleOrderEvent(context.Background(), m); err != nil {
		t.Errorf("HandleOrderEvent: %v, want nil", err)
	}
}

func TestService_HandleOrderEvent_BadEnvelope(t *testing.T) {
	svc := &Service{Sink: &memSink{}}
	m := kafkago.Message{Value: []byte("not json")}
	if err := svc.HandleOrderEvent(context.Background(), m); err == nil {
		t.Error("expected an error for a malformed envelope")
	}
}
