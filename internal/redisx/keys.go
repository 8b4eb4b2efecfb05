package redisx

import "time"

const (
	// Order status read cache: order_status:{order_id} -> {"estatus": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Selection dialog state: dialog:{session_id} -> JSON conversation state
	KeyDialog = "dialog:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour

	// Dialogs die after three minutes of silence, matching the picker UI
	// timeout.
	TTLDialog = 3 * time.Minute
)
