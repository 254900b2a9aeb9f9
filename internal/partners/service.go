package partners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/routeflow/routeflow-backend/pkg/db"
	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the delivery partner registry operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (PartnerResponse, error)
	GetByID(ctx context.Context, id int64) (PartnerResponse, error)
	List(ctx context.Context, params ListParams) (pagination.Page[PartnerResponse], error)
	AvailableByCity(ctx context.Context, city string) ([]PartnerResponse, error)
	UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (PartnerResponse, error)
}

type service struct {
	repo Repository
}

// NewService builds the partner registry service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (PartnerResponse, error) {
	if strings.TrimSpace(input.Name) == "" {
		return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "partner name required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "partner phone required")
	}
	if strings.TrimSpace(input.City) == "" {
		return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "partner city required")
	}
	if !input.VehicleType.IsValid() {
		return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid vehicle type %q", input.VehicleType))
	}

	partner := &models.DeliveryPartner{
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       input.Email,
		City:        strings.ToUpper(strings.TrimSpace(input.City)),
		Status:      enums.PartnerStatusAvailable,
		VehicleType: input.VehicleType,
	}

	if err := s.repo.Create(ctx, partner); err != nil {
		if db.IsUniqueViolation(err, "") {
			return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeConflict, "partner with this phone already exists")
		}
		return PartnerResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create partner")
	}
	return NewPartnerResponse(*partner), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (PartnerResponse, error) {
	partner, err := s.findByID(ctx, id)
	if err != nil {
		return PartnerResponse{}, err
	}
	return NewPartnerResponse(*partner), nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[PartnerResponse], error) {
	if params.Filters.Status != nil && !params.Filters.Status.IsValid() {
		return pagination.Page[PartnerResponse]{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid partner status %q", *params.Filters.Status))
	}
	filters := params.Filters
	filters.City = strings.ToUpper(strings.TrimSpace(filters.City))

	rows, total, err := s.repo.List(ctx, params.Page, filters)
	if err != nil {
		return pagination.Page[PartnerResponse]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partners")
	}
	return pagination.NewPage(NewPartnerResponses(rows), params.Page, total), nil
}

func (s *service) AvailableByCity(ctx context.Context, city string) ([]PartnerResponse, error) {
	city = strings.ToUpper(strings.TrimSpace(city))
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city required")
	}
	rows, err := s.repo.FindAvailableByCity(ctx, city)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available partners")
	}
	return NewPartnerResponses(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (PartnerResponse, error) {
	if !status.IsValid() {
		return PartnerResponse{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid partner status %q", status))
	}
	partner, err := s.findByID(ctx, id)
	if err != nil {
		return PartnerResponse{}, err
	}

	if partner.Status != status {
		if _, err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return PartnerResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update partner status")
		}
		partner.Status = status
	}
	return NewPartnerResponse(*partner), nil
}

func (s *service) findByID(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	return partner, nil
}
