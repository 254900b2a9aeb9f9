package partners

import (
	"context"
	"errors"
	"testing"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn       func(ctx context.Context, partner *models.DeliveryPartner) error
	findByIDFn     func(ctx context.Context, id int64) (*models.DeliveryPartner, error)
	listFn         func(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.DeliveryPartner, int64, error)
	availableFn    func(ctx context.Context, city string) ([]models.DeliveryPartner, error)
	updateStatusFn func(ctx context.Context, id int64, status enums.PartnerStatus) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, partner *models.DeliveryPartner) error {
	if f.createFn != nil {
		return f.createFn(ctx, partner)
	}
	partner.ID = 1
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.DeliveryPartner, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params, filters)
	}
	return nil, 0, nil
}

func (f *fakeRepository) FindAvailableByCity(ctx context.Context, city string) ([]models.DeliveryPartner, error) {
	if f.availableFn != nil {
		return f.availableFn(ctx, city)
	}
	return nil, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (int64, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return 1, nil
}

func (f *fakeRepository) ClaimAvailable(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (f *fakeRepository) Release(ctx context.Context, id int64) error { return nil }

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestServiceCreateUppercasesCityAndDefaultsStatus(t *testing.T) {
	var saved *models.DeliveryPartner
	repo := &fakeRepository{
		createFn: func(ctx context.Context, partner *models.DeliveryPartner) error {
			partner.ID = 7
			saved = partner
			return nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	response, err := svc.Create(context.Background(), CreateInput{
		Name:        "Ravi Kumar",
		Phone:       "9876500001",
		City:        "mumbai",
		VehicleType: enums.VehicleTypeBike,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.City != "MUMBAI" {
		t.Fatalf("expected uppercased city, got %q", saved.City)
	}
	if saved.Status != enums.PartnerStatusAvailable {
		t.Fatalf("expected AVAILABLE default, got %s", saved.Status)
	}
	if response.ID != 7 {
		t.Fatalf("unexpected id %d", response.ID)
	}
}

func TestServiceCreateDuplicatePhoneConflict(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, partner *models.DeliveryPartner) error {
			return errors.New(`UNIQUE constraint failed: delivery_partners.phone`)
		},
	}
	svc := newServiceWithRepo(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Ravi Kumar",
		Phone:       "9876500001",
		City:        "MUMBAI",
		VehicleType: enums.VehicleTypeBike,
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateRejectsInvalidVehicleType(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Ravi Kumar",
		Phone:       "9876500001",
		City:        "MUMBAI",
		VehicleType: enums.VehicleType("TRUCK"),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	_, err := svc.GetByID(context.Background(), 42)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListUppercasesCityFilter(t *testing.T) {
	var gotFilters ListFilters
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.DeliveryPartner, int64, error) {
			gotFilters = filters
			return []models.DeliveryPartner{{ID: 1, Name: "Ravi"}}, 1, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	page, err := svc.List(context.Background(), ListParams{
		Page:    pagination.Params{Page: 0, Size: 10},
		Filters: ListFilters{City: "mumbai"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilters.City != "MUMBAI" {
		t.Fatalf("expected uppercased filter, got %q", gotFilters.City)
	}
	if page.TotalElements != 1 || len(page.Content) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if !page.Last {
		t.Fatal("expected last page")
	}
}

func TestServiceAvailableByCityRequiresCity(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	_, err := svc.AvailableByCity(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	partner := &models.DeliveryPartner{ID: 3, Name: "Ravi", Status: enums.PartnerStatusAvailable}
	updated := false
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
			clone := *partner
			return &clone, nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status enums.PartnerStatus) (int64, error) {
			updated = true
			if status != enums.PartnerStatusOffline {
				t.Fatalf("unexpected status %s", status)
			}
			return 1, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	response, err := svc.UpdateStatus(context.Background(), 3, enums.PartnerStatusOffline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatal("expected status update")
	}
	if response.Status != enums.PartnerStatusOffline {
		t.Fatalf("unexpected response status %s", response.Status)
	}
}

func TestServiceUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	_, err := svc.UpdateStatus(context.Background(), 3, enums.PartnerStatus("SLEEPING"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
