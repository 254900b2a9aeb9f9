package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	partnersTable := `
CREATE TABLE IF NOT EXISTS delivery_partners (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  city TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'AVAILABLE',
  vehicle_type TEXT NOT NULL,
  created_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_number TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  pickup_address TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  city TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PLACED',
  delivery_partner_id INTEGER,
  cancellation_reason TEXT,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(partnersTable).Error)
	require.NoError(t, db.Exec(ordersTable).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, orderNumber, city string, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:     orderNumber,
		CustomerName:    "Asha Rao",
		CustomerPhone:   "9876512345",
		PickupAddress:   "12 MG Road",
		DeliveryAddress: "99 Hill Street",
		City:            city,
		Status:          status,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryExistsByOrderNumber(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)

	exists, err := repo.ExistsByOrderNumber(ctx, "ORD-AAAA1111")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrderNumber(ctx, "ORD-BBBB2222")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryFindByIDPreloadsPartner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partner := &models.DeliveryPartner{Name: "Ravi", Phone: "9876500001", City: "MUMBAI", Status: enums.PartnerStatusBusy, VehicleType: enums.VehicleTypeBike}
	require.NoError(t, db.Create(partner).Error)

	order := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusAssigned)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("delivery_partner_id", partner.ID).Error)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.DeliveryPartner)
	assert.Equal(t, "Ravi", loaded.DeliveryPartner.Name)
}

func TestRepositoryUpdateStatusFromGuard(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)

	ok, err := repo.UpdateStatusFrom(ctx, order.ID, enums.OrderStatusPlaced, enums.OrderStatusAssigned)
	require.NoError(t, err)
	assert.True(t, ok)

	// The same guarded transition loses the second time.
	ok, err = repo.UpdateStatusFrom(ctx, order.ID, enums.OrderStatusPlaced, enums.OrderStatusAssigned)
	require.NoError(t, err)
	assert.False(t, ok)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAssigned, loaded.Status)
}

func TestRepositoryAssignPartnerFromPlacedGuard(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partner := &models.DeliveryPartner{Name: "Ravi", Phone: "9876500001", City: "MUMBAI", Status: enums.PartnerStatusAvailable, VehicleType: enums.VehicleTypeBike}
	require.NoError(t, db.Create(partner).Error)

	order := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)

	ok, err := repo.AssignPartnerFromPlaced(ctx, order.ID, partner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AssignPartnerFromPlaced(ctx, order.ID, partner.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAssigned, loaded.Status)
	require.NotNil(t, loaded.DeliveryPartnerID)
	assert.Equal(t, partner.ID, *loaded.DeliveryPartnerID)
}

func TestRepositoryCancelFromClearsPartnerReference(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	partner := &models.DeliveryPartner{Name: "Ravi", Phone: "9876500001", City: "MUMBAI", Status: enums.PartnerStatusBusy, VehicleType: enums.VehicleTypeBike}
	require.NoError(t, db.Create(partner).Error)

	order := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)
	ok, err := repo.AssignPartnerFromPlaced(ctx, order.ID, partner.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.CancelFrom(ctx, order.ID, enums.OrderStatusAssigned, "customer changed mind", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, loaded.Status)
	assert.Nil(t, loaded.DeliveryPartnerID)
	require.NotNil(t, loaded.CancellationReason)
	assert.Equal(t, "customer changed mind", *loaded.CancellationReason)
	assert.NotNil(t, loaded.CancelledAt)
}

func TestRepositoryCancelFromGuardLoses(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	order := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusDelivered)

	ok, err := repo.CancelFrom(ctx, order.ID, enums.OrderStatusPlaced, "stale view", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryListFiltersSortsAndCounts(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)
	seedOrder(t, repo, "ORD-BBBB2222", "MUMBAI", enums.OrderStatusCancelled)
	seedOrder(t, repo, "ORD-CCCC3333", "DELHI", enums.OrderStatusPlaced)

	status := enums.OrderStatusPlaced
	rows, total, err := repo.List(ctx, pagination.Params{Page: 0, Size: 10}, ListFilters{City: "MUMBAI", Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-AAAA1111", rows[0].OrderNumber)

	rows, total, err = repo.List(ctx, pagination.Params{Page: 0, Size: 2}, ListFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := seedOrder(t, repo, "ORD-AAAA1111", "MUMBAI", enums.OrderStatusPlaced)
	newer := seedOrder(t, repo, "ORD-BBBB2222", "MUMBAI", enums.OrderStatusPlaced)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", older.ID).Update("created_at", time.Now().Add(-time.Hour)).Error)

	rows, _, err := repo.List(ctx, pagination.Params{Page: 0, Size: 10}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}
