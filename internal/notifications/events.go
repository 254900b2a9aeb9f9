package notifications

import (
	"fmt"
	"time"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
)

// OrderEvent is the payload broadcast to order stream subscribers.
// Field casing matches the JSON contract consumed by the dashboard clients.
type OrderEvent struct {
	Type        enums.EventType `json:"type"`
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Message     string          `json:"message"`
	OldStatus   *string         `json:"oldStatus,omitempty"`
	NewStatus   *string         `json:"newStatus,omitempty"`
	PartnerName *string         `json:"partnerName,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewOrderCreated builds the event emitted after an order is placed.
func NewOrderCreated(order *models.Order) OrderEvent {
	newStatus := order.Status.String()
	return OrderEvent{
		Type:        enums.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("New order created: %s", order.OrderNumber),
		NewStatus:   &newStatus,
		Timestamp:   time.Now().UTC(),
	}
}

// NewStatusChanged builds the event emitted after a lifecycle transition.
func NewStatusChanged(order *models.Order, oldStatus, newStatus enums.OrderStatus) OrderEvent {
	oldValue := oldStatus.String()
	newValue := newStatus.String()
	return OrderEvent{
		Type:        enums.EventStatusChanged,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("Order %s status changed: %s -> %s", order.OrderNumber, oldValue, newValue),
		OldStatus:   &oldValue,
		NewStatus:   &newValue,
		Timestamp:   time.Now().UTC(),
	}
}

// NewPartnerAssigned builds the event emitted after a partner claims an order.
func NewPartnerAssigned(order *models.Order, partnerName string) OrderEvent {
	newStatus := order.Status.String()
	return OrderEvent{
		Type:        enums.EventPartnerAssigned,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("Partner %s assigned to order %s", partnerName, order.OrderNumber),
		NewStatus:   &newStatus,
		PartnerName: &partnerName,
		Timestamp:   time.Now().UTC(),
	}
}

// NewOrderCancelled builds the event emitted after a cancellation.
func NewOrderCancelled(order *models.Order, reason string) OrderEvent {
	newStatus := enums.OrderStatusCancelled.String()
	return OrderEvent{
		Type:        enums.EventOrderCancelled,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("Order %s cancelled: %s", order.OrderNumber, reason),
		NewStatus:   &newStatus,
		Timestamp:   time.Now().UTC(),
	}
}
