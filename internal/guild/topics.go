package guild

const (
	TopicOrderCreated  = "guild.order.created"
	TopicOrderAssigned = "guild.order.assigned"
	TopicOrderReady    = "guild.order.ready"
)

// Partition key = order id, so all events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
