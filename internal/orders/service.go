package orders

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/routeflow/routeflow-backend/internal/audit"
	"github.com/routeflow/routeflow-backend/internal/notifications"
	"github.com/routeflow/routeflow-backend/internal/partners"
	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/logger"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	cancelReasonMinLen = 5
	cancelReasonMaxLen = 500
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.OrderEvent)
}

// Service exposes the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput, actor string) (OrderResponse, error)
	GetByID(ctx context.Context, id int64) (OrderResponse, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (OrderResponse, error)
	List(ctx context.Context, params ListParams) (pagination.Page[OrderResponse], error)
	UpdateStatus(ctx context.Context, id int64, target enums.OrderStatus, actor string) (OrderResponse, error)
	Assign(ctx context.Context, id, partnerID int64, actor string) (OrderResponse, error)
	AutoAssign(ctx context.Context, id int64, actor string) (AutoAssignResult, error)
	Cancel(ctx context.Context, id int64, reason, actor string) (OrderResponse, error)
	History(ctx context.Context, id int64) ([]AuditEntryResponse, error)
}

type service struct {
	repo     Repository
	partners partners.Repository
	tx       txRunner
	audit    audit.Service
	events   eventPublisher
	logg     *logger.Logger
}

// NewService builds the order lifecycle service with its collaborators.
func NewService(repo Repository, partnerRepo partners.Repository, tx txRunner, auditSvc audit.Service, events eventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if partnerRepo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if auditSvc == nil {
		return nil, fmt.Errorf("audit service required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		partners: partnerRepo,
		tx:       tx,
		audit:    auditSvc,
		events:   events,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, actor string) (OrderResponse, error) {
	if err := validateCreateInput(input); err != nil {
		return OrderResponse{}, err
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		PickupAddress:   strings.TrimSpace(input.PickupAddress),
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		City:            strings.ToUpper(strings.TrimSpace(input.City)),
		Status:          enums.OrderStatusPlaced,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orderNumber, err := newOrderNumber(ctx, repo)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate order number")
		}
		order.OrderNumber = orderNumber

		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return s.audit.RecordCreated(ctx, tx, order, actor)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "order created")
	s.events.Publish(ctx, notifications.NewOrderCreated(order))

	return NewOrderResponse(*order), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (OrderResponse, error) {
	order, err := s.findByID(ctx, s.repo, id)
	if err != nil {
		return OrderResponse{}, err
	}
	return NewOrderResponse(*order), nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (OrderResponse, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return OrderResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if IsNotFound(err) {
			return OrderResponse{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderResponse(*order), nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[OrderResponse], error) {
	if params.Filters.Status != nil && !params.Filters.Status.IsValid() {
		return pagination.Page[OrderResponse]{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *params.Filters.Status))
	}
	filters := params.Filters
	filters.City = strings.ToUpper(strings.TrimSpace(filters.City))

	rows, total, err := s.repo.List(ctx, params.Page, filters)
	if err != nil {
		return pagination.Page[OrderResponse]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pagination.NewPage(NewOrderResponses(rows), params.Page, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, target enums.OrderStatus, actor string) (OrderResponse, error) {
	if !target.IsValid() {
		return OrderResponse{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", target))
	}

	var (
		updated   *models.Order
		oldStatus enums.OrderStatus
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByID(ctx, repo, id)
		if err != nil {
			return err
		}
		oldStatus = order.Status

		if err := validateTransition(order.Status, target); err != nil {
			return err
		}

		ok, err := repo.UpdateStatusFrom(ctx, id, oldStatus, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order status changed concurrently, no longer %s", oldStatus))
		}

		// Delivery frees the partner for new work.
		if target == enums.OrderStatusDelivered && order.DeliveryPartnerID != nil {
			if err := s.partners.WithTx(tx).Release(ctx, *order.DeliveryPartnerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release partner")
			}
		}

		if err := s.audit.RecordStatusChange(ctx, tx, order, oldStatus, target, actor); err != nil {
			return err
		}

		updated, err = s.findByID(ctx, repo, id)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	ctx = s.logg.WithOrderNumber(ctx, updated.OrderNumber)
	s.logg.Info(ctx, fmt.Sprintf("order status updated to %s", target))
	s.events.Publish(ctx, notifications.NewStatusChanged(updated, oldStatus, target))

	return NewOrderResponse(*updated), nil
}

func (s *service) Assign(ctx context.Context, id, partnerID int64, actor string) (OrderResponse, error) {
	if partnerID <= 0 {
		return OrderResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	var (
		updated *models.Order
		partner *models.DeliveryPartner
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		partnerRepo := s.partners.WithTx(tx)

		order, err := s.findByID(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPlaced {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be assigned when status is PLACED")
		}

		partner, err = partnerRepo.FindByID(ctx, partnerID)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
		}
		if partner.Status != enums.PartnerStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeUnavailable, "delivery partner is not available")
		}

		claimed, err := partnerRepo.ClaimAvailable(ctx, partnerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim partner")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeUnavailable, "delivery partner is not available")
		}

		ok, err := repo.AssignPartnerFromPlaced(ctx, id, partnerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign partner")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be assigned when status is PLACED")
		}

		if err := s.audit.RecordPartnerAssigned(ctx, tx, order, partner, actor); err != nil {
			return err
		}

		updated, err = s.findByID(ctx, repo, id)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	ctx = s.logg.WithOrderNumber(ctx, updated.OrderNumber)
	s.logg.Info(ctx, fmt.Sprintf("partner %s assigned", partner.Name))
	s.events.Publish(ctx, notifications.NewPartnerAssigned(updated, partner.Name))

	return NewOrderResponse(*updated), nil
}

func (s *service) AutoAssign(ctx context.Context, id int64, actor string) (AutoAssignResult, error) {
	var (
		updated *models.Order
		partner *models.DeliveryPartner
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		partnerRepo := s.partners.WithTx(tx)

		order, err := s.findByID(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPlaced {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be assigned when status is PLACED")
		}

		candidates, err := partnerRepo.FindAvailableByCity(ctx, order.City)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available partners")
		}

		// Lowest id first: the partner who has been waiting longest. A raced
		// claim falls through to the next candidate.
		for i := range candidates {
			claimed, err := partnerRepo.ClaimAvailable(ctx, candidates[i].ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim partner")
			}
			if claimed {
				partner = &candidates[i]
				break
			}
		}
		if partner == nil {
			updated = order
			return nil
		}

		ok, err := repo.AssignPartnerFromPlaced(ctx, id, partner.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign partner")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be assigned when status is PLACED")
		}

		if err := s.audit.RecordPartnerAssigned(ctx, tx, order, partner, actor); err != nil {
			return err
		}
		if err := s.audit.RecordStatusChange(ctx, tx, order, enums.OrderStatusPlaced, enums.OrderStatusAssigned, actor); err != nil {
			return err
		}

		updated, err = s.findByID(ctx, repo, id)
		return err
	})
	if err != nil {
		return AutoAssignResult{}, err
	}

	ctx = s.logg.WithOrderNumber(ctx, updated.OrderNumber)
	if partner == nil {
		s.logg.Warn(ctx, "no available partner for auto-assignment")
		return AutoAssignResult{Assigned: false, Order: NewOrderResponse(*updated)}, nil
	}

	s.logg.Info(ctx, fmt.Sprintf("partner %s auto-assigned", partner.Name))
	s.events.Publish(ctx, notifications.NewPartnerAssigned(updated, partner.Name))

	partnerResponse := partners.NewPartnerResponse(*partner)
	partnerResponse.Status = enums.PartnerStatusBusy
	return AutoAssignResult{
		Assigned: true,
		Order:    NewOrderResponse(*updated),
		Partner:  &partnerResponse,
	}, nil
}

func (s *service) Cancel(ctx context.Context, id int64, reason, actor string) (OrderResponse, error) {
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < cancelReasonMinLen || n > cancelReasonMaxLen {
		return OrderResponse{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cancellation reason must be between %d and %d characters", cancelReasonMinLen, cancelReasonMaxLen))
	}

	var updated *models.Order

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findByID(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cannot be cancelled")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		}

		oldStatus := order.Status
		ok, err := repo.CancelFrom(ctx, id, oldStatus, reason, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order status changed concurrently, no longer %s", oldStatus))
		}

		if order.DeliveryPartnerID != nil {
			if err := s.partners.WithTx(tx).Release(ctx, *order.DeliveryPartnerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release partner")
			}
		}

		if err := s.audit.RecordCancelled(ctx, tx, order, oldStatus, reason, actor); err != nil {
			return err
		}

		updated, err = s.findByID(ctx, repo, id)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	ctx = s.logg.WithOrderNumber(ctx, updated.OrderNumber)
	s.logg.Info(ctx, "order cancelled")
	s.events.Publish(ctx, notifications.NewOrderCancelled(updated, reason))

	return NewOrderResponse(*updated), nil
}

func (s *service) History(ctx context.Context, id int64) ([]AuditEntryResponse, error) {
	if _, err := s.findByID(ctx, s.repo, id); err != nil {
		return nil, err
	}
	entries, err := s.audit.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewAuditEntryResponses(entries), nil
}

func (s *service) findByID(ctx context.Context, repo Repository, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// validateTransition enforces the forward-only lifecycle. Cancellation goes
// through Cancel, never through a status update.
func validateTransition(current, target enums.OrderStatus) error {
	valid := false
	switch current {
	case enums.OrderStatusPlaced:
		valid = target == enums.OrderStatusAssigned
	case enums.OrderStatusAssigned:
		valid = target == enums.OrderStatusPicked
	case enums.OrderStatusPicked:
		valid = target == enums.OrderStatusDelivered
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot transition order from %s to %s", current, target))
	}
	return nil
}

func validateCreateInput(input CreateInput) error {
	missing := func(field string) error {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return missing("customer name")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return missing("customer phone")
	}
	if strings.TrimSpace(input.PickupAddress) == "" {
		return missing("pickup address")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return missing("delivery address")
	}
	if strings.TrimSpace(input.City) == "" {
		return missing("city")
	}
	return nil
}
