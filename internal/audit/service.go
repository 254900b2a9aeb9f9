package audit

import (
	"context"
	"fmt"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"gorm.io/gorm"
)

// SystemActor is recorded when no authenticated user performed the change.
const SystemActor = "SYSTEM"

// Service records audit entries for order mutations. The tx argument is the
// transaction of the mutation being documented; a failed insert aborts it.
type Service interface {
	RecordCreated(ctx context.Context, tx *gorm.DB, order *models.Order, performedBy string) error
	RecordStatusChange(ctx context.Context, tx *gorm.DB, order *models.Order, oldStatus, newStatus enums.OrderStatus, performedBy string) error
	RecordPartnerAssigned(ctx context.Context, tx *gorm.DB, order *models.Order, partner *models.DeliveryPartner, performedBy string) error
	RecordCancelled(ctx context.Context, tx *gorm.DB, order *models.Order, oldStatus enums.OrderStatus, reason, performedBy string) error
	History(ctx context.Context, orderID int64) ([]models.OrderAuditLog, error)
}

type service struct {
	repo Repository
}

// NewService builds the audit service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordCreated(ctx context.Context, tx *gorm.DB, order *models.Order, performedBy string) error {
	newValue := fmt.Sprintf("Order created for %s", order.CustomerName)
	entry := &models.OrderAuditLog{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Action:      enums.AuditActionCreated,
		FieldName:   "order",
		NewValue:    &newValue,
		PerformedBy: normalizeActor(performedBy),
		Notes:       fmt.Sprintf("New order placed for delivery to %s", order.City),
	}
	return s.append(ctx, tx, entry)
}

func (s *service) RecordStatusChange(ctx context.Context, tx *gorm.DB, order *models.Order, oldStatus, newStatus enums.OrderStatus, performedBy string) error {
	oldValue := oldStatus.String()
	newValue := newStatus.String()
	entry := &models.OrderAuditLog{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Action:      enums.AuditActionStatusChanged,
		FieldName:   "status",
		OldValue:    &oldValue,
		NewValue:    &newValue,
		PerformedBy: normalizeActor(performedBy),
		Notes:       fmt.Sprintf("Order status changed from %s to %s", oldStatus, newStatus),
	}
	return s.append(ctx, tx, entry)
}

func (s *service) RecordPartnerAssigned(ctx context.Context, tx *gorm.DB, order *models.Order, partner *models.DeliveryPartner, performedBy string) error {
	if partner == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "partner required for assignment audit entry")
	}
	newValue := fmt.Sprintf("%d", partner.ID)
	entry := &models.OrderAuditLog{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Action:      enums.AuditActionPartnerAssigned,
		FieldName:   "deliveryPartnerId",
		NewValue:    &newValue,
		PerformedBy: normalizeActor(performedBy),
		Notes:       fmt.Sprintf("Delivery partner '%s' assigned to order", partner.Name),
	}
	return s.append(ctx, tx, entry)
}

func (s *service) RecordCancelled(ctx context.Context, tx *gorm.DB, order *models.Order, oldStatus enums.OrderStatus, reason, performedBy string) error {
	oldValue := oldStatus.String()
	newValue := enums.OrderStatusCancelled.String()
	entry := &models.OrderAuditLog{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Action:      enums.AuditActionCancelled,
		FieldName:   "status",
		OldValue:    &oldValue,
		NewValue:    &newValue,
		PerformedBy: normalizeActor(performedBy),
		Notes:       fmt.Sprintf("Order cancelled. Reason: %s", reason),
	}
	return s.append(ctx, tx, entry)
}

func (s *service) History(ctx context.Context, orderID int64) ([]models.OrderAuditLog, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	entries, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return entries, nil
}

func (s *service) append(ctx context.Context, tx *gorm.DB, entry *models.OrderAuditLog) error {
	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append audit entry")
	}
	return nil
}

func normalizeActor(performedBy string) string {
	if performedBy == "" {
		return SystemActor
	}
	return performedBy
}
