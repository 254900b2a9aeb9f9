package models

import (
	"time"

	"github.com/routeflow/routeflow-backend/pkg/enums"
)

// Order represents a delivery order through its full lifecycle.
// Rows are never deleted; cancellation and delivery are terminal states.
type Order struct {
	ID                 int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber        string            `gorm:"column:order_number;type:varchar(50);not null;uniqueIndex"`
	CustomerName       string            `gorm:"column:customer_name;type:varchar(255);not null"`
	CustomerPhone      string            `gorm:"column:customer_phone;type:varchar(20);not null"`
	PickupAddress      string            `gorm:"column:pickup_address;type:text;not null"`
	DeliveryAddress    string            `gorm:"column:delivery_address;type:text;not null"`
	City               string            `gorm:"column:city;type:varchar(100);not null;index:idx_order_city;index:idx_order_city_status,priority:1"`
	Status             enums.OrderStatus `gorm:"column:status;type:varchar(20);not null;index:idx_order_status;index:idx_order_city_status,priority:2"`
	DeliveryPartnerID  *int64            `gorm:"column:delivery_partner_id"`
	DeliveryPartner    *DeliveryPartner  `gorm:"foreignKey:DeliveryPartnerID"`
	CancellationReason *string           `gorm:"column:cancellation_reason;type:varchar(500)"`
	CancelledAt        *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table to the plural used by the migrations.
func (Order) TableName() string {
	return "orders"
}
