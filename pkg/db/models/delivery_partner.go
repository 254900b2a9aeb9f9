package models

import (
	"time"

	"github.com/routeflow/routeflow-backend/pkg/enums"
)

// DeliveryPartner is a courier registered with the platform.
type DeliveryPartner struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string              `gorm:"column:name;type:varchar(255);not null"`
	Phone       string              `gorm:"column:phone;type:varchar(20);not null;uniqueIndex"`
	Email       *string             `gorm:"column:email;type:varchar(255)"`
	City        string              `gorm:"column:city;type:varchar(100);not null;index:idx_partner_city;index:idx_partner_city_status,priority:1"`
	Status      enums.PartnerStatus `gorm:"column:status;type:varchar(20);not null;default:'AVAILABLE';index:idx_partner_status;index:idx_partner_city_status,priority:2"`
	VehicleType enums.VehicleType   `gorm:"column:vehicle_type;type:varchar(20)"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (DeliveryPartner) TableName() string {
	return "delivery_partners"
}
