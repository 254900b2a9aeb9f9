package models

import (
	"time"

	"github.com/routeflow/routeflow-backend/pkg/enums"
)

// OrderAuditLog is an append-only record of one field-level order change.
// Entries are written in the same transaction as the mutation they document
// and are never updated or deleted.
type OrderAuditLog struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64             `gorm:"column:order_id;not null;index:idx_audit_order_id"`
	OrderNumber string            `gorm:"column:order_number;type:varchar(50)"`
	Action      enums.AuditAction `gorm:"column:action;type:varchar(30);not null"`
	FieldName   string            `gorm:"column:field_name;type:varchar(100)"`
	OldValue    *string           `gorm:"column:old_value;type:varchar(255)"`
	NewValue    *string           `gorm:"column:new_value;type:varchar(255)"`
	PerformedBy string            `gorm:"column:performed_by;type:varchar(255)"`
	Notes       string            `gorm:"column:notes;type:text"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_audit_created_at"`
}

func (OrderAuditLog) TableName() string {
	return "order_audit_logs"
}
