package orders

import (
	"context"
	"time"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders. Mutations that race
// with each other are guarded by the caller-supplied expected status, so a
// concurrent loser reports zero rows instead of overwriting state.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, int64, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to enums.OrderStatus) (bool, error)
	AssignPartnerFromPlaced(ctx context.Context, id, partnerID int64) (bool, error)
	CancelFrom(ctx context.Context, id int64, from enums.OrderStatus, reason string, at time.Time) (bool, error)
}
