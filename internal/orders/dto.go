package orders

import (
	"time"

	"github.com/routeflow/routeflow-backend/internal/partners"
	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
)

// CreateInput carries the fields accepted when placing an order.
type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	PickupAddress   string
	DeliveryAddress string
	City            string
}

// ListFilters describe the optional filters supported by the order list.
type ListFilters struct {
	City   string
	Status *enums.OrderStatus
}

// ListParams combines pagination with the list filters.
type ListParams struct {
	Page    pagination.Params
	Filters ListFilters
}

// OrderResponse is the JSON shape returned for an order, with the assigned
// partner embedded when present.
type OrderResponse struct {
	ID                 int64                     `json:"id"`
	OrderNumber        string                    `json:"orderNumber"`
	CustomerName       string                    `json:"customerName"`
	CustomerPhone      string                    `json:"customerPhone"`
	PickupAddress      string                    `json:"pickupAddress"`
	DeliveryAddress    string                    `json:"deliveryAddress"`
	City               string                    `json:"city"`
	Status             enums.OrderStatus         `json:"status"`
	DeliveryPartner    *partners.PartnerResponse `json:"deliveryPartner,omitempty"`
	CancellationReason *string                   `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time                `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

// NewOrderResponse maps the persistence model to its response shape.
func NewOrderResponse(order models.Order) OrderResponse {
	var partner *partners.PartnerResponse
	if order.DeliveryPartner != nil {
		mapped := partners.NewPartnerResponse(*order.DeliveryPartner)
		partner = &mapped
	}
	return OrderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		PickupAddress:      order.PickupAddress,
		DeliveryAddress:    order.DeliveryAddress,
		City:               order.City,
		Status:             order.Status,
		DeliveryPartner:    partner,
		CancellationReason: order.CancellationReason,
		CancelledAt:        order.CancelledAt,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// NewOrderResponses maps a slice of models.
func NewOrderResponses(orderModels []models.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orderModels))
	for _, order := range orderModels {
		responses = append(responses, NewOrderResponse(order))
	}
	return responses
}

// AuditEntryResponse is the JSON shape returned for one order history row.
type AuditEntryResponse struct {
	ID          int64             `json:"id"`
	OrderID     int64             `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	Action      enums.AuditAction `json:"action"`
	FieldName   string            `json:"fieldName,omitempty"`
	OldValue    *string           `json:"oldValue,omitempty"`
	NewValue    *string           `json:"newValue,omitempty"`
	PerformedBy string            `json:"performedBy"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewAuditEntryResponses maps audit rows to their response shape.
func NewAuditEntryResponses(entries []models.OrderAuditLog) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditEntryResponse{
			ID:          entry.ID,
			OrderID:     entry.OrderID,
			OrderNumber: entry.OrderNumber,
			Action:      entry.Action,
			FieldName:   entry.FieldName,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			PerformedBy: entry.PerformedBy,
			Notes:       entry.Notes,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return responses
}

// AutoAssignResult reports the outcome of an auto-assignment attempt. An
// empty candidate pool is a valid outcome, not an error.
type AutoAssignResult struct {
	Assigned bool                      `json:"assigned"`
	Order    OrderResponse             `json:"order"`
	Partner  *partners.PartnerResponse `json:"partner,omitempty"`
}
