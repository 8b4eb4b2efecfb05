package guild

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventOrderAssigned = "OrderAssigned"
	EventOrderReady    = "OrderReady"
)

// Envelope wraps every event published about an order. CorrelationID is the
// order id.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	ItemName    string `json:"item_name"`
	Level       string `json:"level"`
	Quality     string `json:"quality"`
	Quantity    int    `json:"cantidad"`
	Profession  string `json:"oficio_requerido"`
	RequesterID string `json:"solicitante_id"`
}

type OrderAssignedPayload struct {
	OrderID    string `json:"order_id"`
	ItemName   string `json:"item_name"`
	AssigneeID string `json:"asignado_a_id"`
	AssignedBy string `json:"assigned_by"`
	Profession string `json:"oficio_requerido"`
}

type OrderReadyPayload struct {
	OrderID     string `json:"order_id"`
	ItemName    string `json:"item_name"`
	RequesterID string `json:"solicitante_id"`
}
