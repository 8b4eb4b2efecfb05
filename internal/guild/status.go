package guild

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusAssigned       Status = "ASSIGNED"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusDelivered      Status = "DELIVERED"

	// StatusCancelled shows up in listings of legacy records; no operation
	// currently produces it. See DESIGN.md.
	StatusCancelled Status = "CANCELLED"
)

// validNext holds the transitions the engine can actually perform.
// ASSIGNED and READY_FOR_PICKUP may be re-assigned to a different worker;
// DELIVERED is terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:        {StatusAssigned: true, StatusReadyForPickup: true},
	StatusAssigned:       {StatusAssigned: true, StatusReadyForPickup: true},
	StatusReadyForPickup: {StatusAssigned: true, StatusReadyForPickup: true, StatusDelivered: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

var statusEmoji = map[Status]string{
	StatusPending:        "🕒",
	StatusAssigned:       "✍️",
	StatusReadyForPickup: "📦",
	StatusDelivered:      "✅",
	StatusCancelled:      "❌",
}

// Emoji returns the display marker for a status, "❓" for anything unknown.
func (s Status) Emoji() string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "❓"
}
