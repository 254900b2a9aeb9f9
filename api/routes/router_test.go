package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/routeflow/routeflow-backend/internal/auth"
	"github.com/routeflow/routeflow-backend/internal/notifications"
	"github.com/routeflow/routeflow-backend/internal/orders"
	"github.com/routeflow/routeflow-backend/internal/partners"
	pkgAuth "github.com/routeflow/routeflow-backend/pkg/auth"
	"github.com/routeflow/routeflow-backend/pkg/auth/session"
	"github.com/routeflow/routeflow-backend/pkg/config"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/logger"
	"github.com/routeflow/routeflow-backend/pkg/metrics"
	"github.com/routeflow/routeflow-backend/pkg/pagination"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "routeflow", ExpirationMinutes: 30},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
	broker, err := notifications.NewBroker(logg)
	if err != nil {
		t.Fatalf("broker: %v", err)
	}
	t.Cleanup(broker.Close)

	return NewRouter(
		testRouterConfig(),
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{ok: true},
		metrics.NewHTTPMetricsWithRegistry(nil),
		broker,
		stubAuthService{},
		stubOrdersService{},
		stubPartnersService{},
	)
}

func mintRouterToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testRouterConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ops@example.com",
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterOrdersRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterOrdersListWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.UserRoleOperator))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data pagination.Page[orders.OrderResponse] `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRouterPartnerCreateForbiddenForCustomer(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"name":"Ravi","phone":"9876500001","city":"Mumbai","vehicleType":"BIKE"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/partners", body)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestRouterPartnerCreateAllowedForOperator(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"name":"Ravi","phone":"9876500001","city":"Mumbai","vehicleType":"BIKE"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/partners", body)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.UserRoleOperator))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{ ok bool }

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateInput, actor string) (orders.OrderResponse, error) {
	return orders.OrderResponse{}, nil
}

func (stubOrdersService) GetByID(ctx context.Context, id int64) (orders.OrderResponse, error) {
	return orders.OrderResponse{ID: id}, nil
}

func (stubOrdersService) GetByOrderNumber(ctx context.Context, orderNumber string) (orders.OrderResponse, error) {
	return orders.OrderResponse{OrderNumber: orderNumber}, nil
}

func (stubOrdersService) List(ctx context.Context, params orders.ListParams) (pagination.Page[orders.OrderResponse], error) {
	return pagination.NewPage([]orders.OrderResponse{}, pagination.Normalize(params.Page), 0), nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, id int64, target enums.OrderStatus, actor string) (orders.OrderResponse, error) {
	return orders.OrderResponse{ID: id, Status: target}, nil
}

func (stubOrdersService) Assign(ctx context.Context, id, partnerID int64, actor string) (orders.OrderResponse, error) {
	return orders.OrderResponse{ID: id}, nil
}

func (stubOrdersService) AutoAssign(ctx context.Context, id int64, actor string) (orders.AutoAssignResult, error) {
	return orders.AutoAssignResult{}, nil
}

func (stubOrdersService) Cancel(ctx context.Context, id int64, reason, actor string) (orders.OrderResponse, error) {
	return orders.OrderResponse{ID: id, Status: enums.OrderStatusCancelled}, nil
}

func (stubOrdersService) History(ctx context.Context, id int64) ([]orders.AuditEntryResponse, error) {
	return nil, nil
}

type stubPartnersService struct{}

func (stubPartnersService) Create(ctx context.Context, input partners.CreateInput) (partners.PartnerResponse, error) {
	return partners.PartnerResponse{ID: 1, Name: input.Name}, nil
}

func (stubPartnersService) GetByID(ctx context.Context, id int64) (partners.PartnerResponse, error) {
	return partners.PartnerResponse{ID: id}, nil
}

func (stubPartnersService) List(ctx context.Context, params partners.ListParams) (pagination.Page[partners.PartnerResponse], error) {
	return pagination.NewPage([]partners.PartnerResponse{}, pagination.Normalize(params.Page), 0), nil
}

func (stubPartnersService) AvailableByCity(ctx context.Context, city string) ([]partners.PartnerResponse, error) {
	return nil, nil
}

func (stubPartnersService) UpdateStatus(ctx context.Context, id int64, status enums.PartnerStatus) (partners.PartnerResponse, error) {
	return partners.PartnerResponse{ID: id, Status: status}, nil
}
