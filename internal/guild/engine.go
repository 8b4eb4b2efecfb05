package guild

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/guildsmith/craftbot/internal/kafka"
)

// OrderStore is the persistence contract the engine needs. Mutations are
// atomic conditional updates: the filter is re-evaluated by the store, so of
// two concurrent callers on the same order at most one succeeds.
type OrderStore interface {
	Insert(ctx context.Context, o Order) error
	Assign(ctx context.Context, orderID, profession, assigneeID string) (Order, error)
	CompleteAs(ctx context.Context, orderID string, caller Actor) (Order, error)
	Deliver(ctx context.Context, orderID, requesterID string) (Order, error)
	ListForProfession(ctx context.Context, profession string) ([]Order, error)
	ListAssignedTo(ctx context.Context, workerID string) ([]Order, error)
	ListRequestedBy(ctx context.Context, requesterID string) ([]Order, error)
	Status(ctx context.Context, orderID string) (Status, error)
}

type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	Types(ctx context.Context, category string) ([]string, error)
	ByCategoryAndType(ctx context.Context, category, itemType string) ([]Recipe, error)
	ByRecipeID(ctx context.Context, recipeID string) (Recipe, error)
}

// Publisher is the best-effort notification transport. Publishing never
// fails the transition it follows.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Selection is the resolved output of the multi-step picker.
type Selection struct {
	RecipeID string `json:"recipe_id"`
	Level    string `json:"level"`
	Quality  string `json:"quality"`
	Quantity int    `json:"cantidad"`
}

// Engine owns the order lifecycle: it gates each transition by the caller's
// profession and rank and delegates the conditional update to the store.
type Engine struct {
	Orders   OrderStore
	Catalog  Catalog
	Producer Publisher
	Service  string
}

// Create registers a new PENDING order for the requester. Any caller may
// request; the selection must resolve to a recipe level and quality.
func (e *Engine) Create(ctx context.Context, requesterID string, sel Selection) (Order, error) {
	if sel.Quantity <= 0 {
		return Order{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	rec, err := e.Catalog.ByRecipeID(ctx, sel.RecipeID)
	if err != nil {
		return Order{}, fmt.Errorf("%w: unknown recipe %q", ErrValidation, sel.RecipeID)
	}
	v, ok := rec.Variation(sel.Level)
	if !ok {
		return Order{}, fmt.Errorf("%w: recipe %q has no level %q", ErrValidation, sel.RecipeID, sel.Level)
	}
	if !v.HasQuality(sel.Quality) {
		return Order{}, fmt.Errorf("%w: level %q has no quality %q", ErrValidation, sel.Level, sel.Quality)
	}
	if rec.Profession == "" {
		return Order{}, fmt.Errorf("%w: recipe %q has no crafting profession", ErrValidation, sel.RecipeID)
	}

	o := Order{
		ID:          uuid.NewString(),
		ItemName:    rec.Name,
		RecipeID:    rec.RecipeID,
		Level:       sel.Level,
		Quality:     sel.Quality,
		Quantity:    sel.Quantity,
		Profession:  rec.Profession,
		RequesterID: requesterID,
		Status:      StatusPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := e.Orders.Insert(ctx, o); err != nil {
		return Order{}, err
	}
	e.publish(TopicOrderCreated, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		ItemName:    o.ItemName,
		Level:       o.Level,
		Quality:     o.Quality,
		Quantity:    o.Quantity,
		Profession:  o.Profession,
		RequesterID: o.RequesterID,
	})
	return o, nil
}

// Assign hands a matching order of the caller's profession to a worker of
// that same profession.
func (e *Engine) Assign(ctx context.Context, caller Actor, orderID, assigneeID, assigneeProfession string) (Order, error) {
	if !caller.Authorized() {
		return Order{}, fmt.Errorf("%w: no craft role recognized", ErrUnauthorized)
	}
	if assigneeProfession != caller.Profession {
		return Order{}, fmt.Errorf("%w: assignee must hold the %s role", ErrUnauthorized, caller.Profession)
	}
	if err := validOrderID(orderID); err != nil {
		return Order{}, err
	}
	o, err := e.Orders.Assign(ctx, orderID, caller.Profession, assigneeID)
	if err != nil {
		return Order{}, err
	}
	e.publish(TopicOrderAssigned, EventOrderAssigned, o.ID, OrderAssignedPayload{
		OrderID:    o.ID,
		ItemName:   o.ItemName,
		AssigneeID: o.AssigneeID,
		AssignedBy: caller.ID,
		Profession: o.Profession,
	})
	return o, nil
}

// Complete marks a matching order READY_FOR_PICKUP.
func (e *Engine) Complete(ctx context.Context, caller Actor, orderID string) (Order, error) {
	if !caller.Authorized() {
		return Order{}, fmt.Errorf("%w: no craft role recognized", ErrUnauthorized)
	}
	if err := validOrderID(orderID); err != nil {
		return Order{}, err
	}
	o, err := e.Orders.CompleteAs(ctx, orderID, caller)
	if err != nil {
		return Order{}, err
	}
	e.publish(TopicOrderReady, EventOrderReady, o.ID, OrderReadyPayload{
		OrderID:     o.ID,
		ItemName:    o.ItemName,
		RequesterID: o.RequesterID,
	})
	return o, nil
}

// Pickup lets the original requester confirm receipt. Wrong order, wrong
// owner and not-ready all collapse into ErrNotFound.
func (e *Engine) Pickup(ctx context.Context, callerID, orderID string) (Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return Order{}, ErrNotFound
	}
	return e.Orders.Deliver(ctx, orderID, callerID)
}

// OrdersView is the role-driven listing: supervisors see the open backlog of
// their profession, workers their own open assignments.
func (e *Engine) OrdersView(ctx context.Context, caller Actor) ([]Order, error) {
	if !caller.Authorized() {
		return nil, fmt.Errorf("%w: no craft role recognized", ErrUnauthorized)
	}
	if caller.IsSupervisor() {
		return e.Orders.ListForProfession(ctx, caller.Profession)
	}
	return e.Orders.ListAssignedTo(ctx, caller.ID)
}

func (e *Engine) MyOrders(ctx context.Context, callerID string) ([]Order, error) {
	return e.Orders.ListRequestedBy(ctx, callerID)
}

func (e *Engine) OrderStatus(ctx context.Context, orderID string) (Status, error) {
	return e.Orders.Status(ctx, orderID)
}

func validOrderID(orderID string) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return fmt.Errorf("%w: malformed order id %q", ErrValidation, orderID)
	}
	return nil
}

func (e *Engine) publish(topic, eventType, orderID string, payload any) {
	if e.Producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	e.Producer.Publish(topic, PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
