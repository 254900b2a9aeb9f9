package enums

// EventType labels the order events published to subscribers.
type EventType string

const (
	EventOrderCreated    EventType = "ORDER_CREATED"
	EventStatusChanged   EventType = "STATUS_CHANGED"
	EventPartnerAssigned EventType = "PARTNER_ASSIGNED"
	EventOrderCancelled  EventType = "ORDER_CANCELLED"
)
