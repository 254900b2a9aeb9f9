package partners

import (
	"context"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for delivery partners.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, partner *models.DeliveryPartner) error
	FindByID(ctx context.Context, id int64) (*models.DeliveryPartner, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.DeliveryPartner, int64, error)
	FindAvailableByCity(ctx context.Context, city string) ([]models.DeliveryPartner, error)
	UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (int64, error)
	ClaimAvailable(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a partners repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, partner *models.DeliveryPartner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.DeliveryPartner, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.DeliveryPartner{})
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DeliveryPartner
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Size).
		Offset(pagination.Offset(params)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindAvailableByCity(ctx context.Context, city string) ([]models.DeliveryPartner, error) {
	var rows []models.DeliveryPartner
	err := r.db.WithContext(ctx).
		Where("city = ?", city).
		Where("status = ?", enums.PartnerStatusAvailable).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ClaimAvailable flips an AVAILABLE partner to BUSY. The status guard makes
// the claim atomic: of two concurrent claims exactly one sees a row update.
func (r *repository) ClaimAvailable(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("id = ?", id).
		Where("status = ?", enums.PartnerStatusAvailable).
		Update("status", enums.PartnerStatusBusy)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Release(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("id = ?", id).
		Update("status", enums.PartnerStatusAvailable).Error
}
