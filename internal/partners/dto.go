package partners

import (
	"time"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
)

// CreateInput carries the fields accepted when registering a partner.
type CreateInput struct {
	Name        string
	Phone       string
	Email       *string
	City        string
	VehicleType enums.VehicleType
}

// ListFilters describe the optional filters supported by the partner list.
type ListFilters struct {
	City   string
	Status *enums.PartnerStatus
}

// ListParams combines pagination with the list filters.
type ListParams struct {
	Page    pagination.Params
	Filters ListFilters
}

// PartnerResponse is the JSON shape returned for a delivery partner.
type PartnerResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Email       *string             `json:"email,omitempty"`
	City        string              `json:"city"`
	Status      enums.PartnerStatus `json:"status"`
	VehicleType enums.VehicleType   `json:"vehicleType"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// NewPartnerResponse maps the persistence model to its response shape.
func NewPartnerResponse(partner models.DeliveryPartner) PartnerResponse {
	return PartnerResponse{
		ID:          partner.ID,
		Name:        partner.Name,
		Phone:       partner.Phone,
		Email:       partner.Email,
		City:        partner.City,
		Status:      partner.Status,
		VehicleType: partner.VehicleType,
		CreatedAt:   partner.CreatedAt,
	}
}

// NewPartnerResponses maps a slice of models.
func NewPartnerResponses(partnerModels []models.DeliveryPartner) []PartnerResponse {
	responses := make([]PartnerResponse, 0, len(partnerModels))
	for _, partner := range partnerModels {
		responses = append(responses, NewPartnerResponse(partner))
	}
	return responses
}
