package audit

import (
	"context"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the append-only audit table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.OrderAuditLog) error
	ListByOrderID(ctx context.Context, orderID int64) ([]models.OrderAuditLog, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an audit repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.OrderAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID int64) ([]models.OrderAuditLog, error) {
	var entries []models.OrderAuditLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
