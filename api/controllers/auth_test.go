package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/routeflow/routeflow-backend/internal/auth"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
)

type stubAuthService struct {
	registered *auth.RegisterRequest
	loginErr   error
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	s.registered = &req
	return &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "rotated", RefreshToken: "rotated-refresh"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

func TestAuthRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthRegister(svc, nil)

	body := strings.NewReader(`{"name":"Asha Verma","email":"asha@example.com","password":"super-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.registered == nil || svc.registered.Email != "asha@example.com" {
		t.Fatalf("expected register call, got %+v", svc.registered)
	}
}

func TestAuthRegisterRejectsMalformedBody(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := strings.NewReader(`{"name":"A","email":"not-an-email","password":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["email"]; !ok {
		t.Fatalf("expected email detail, got %v", payload.Error.Details)
	}
}

func TestAuthLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := strings.NewReader(`{"email":"asha@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRefreshReturnsRotatedPair(t *testing.T) {
	handler := AuthRefresh(&stubAuthService{}, nil)

	body := strings.NewReader(`{"accessToken":"stale","refreshToken":"stale-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "rotated") {
		t.Fatalf("expected rotated tokens in body: %s", rec.Body.String())
	}
}
