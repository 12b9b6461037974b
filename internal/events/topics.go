package events

// Topic constants for domain events emitted by the storefront.
const (
	TopicOrderCreated   = "order.created"
	TopicOrderPaid      = "order.paid"
	TopicOrderCancelled = "order.cancelled"
	TopicPromoReplaced  = "promo.rules_replaced"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderPaid,
		TopicOrderCancelled,
		TopicPromoReplaced,
	}
}
