package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/routeflow/routeflow-backend/api/responses"
	"github.com/routeflow/routeflow-backend/api/validators"
	"github.com/routeflow/routeflow-backend/internal/partners"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/logger"
)

type createPartnerRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Phone       string  `json:"phone" validate:"required,min=7,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	City        string  `json:"city" validate:"required,min=2,max=60"`
	VehicleType string  `json:"vehicleType" validate:"required"`
}

type updatePartnerStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreatePartner registers a new delivery partner.
func CreatePartner(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		var body createPartnerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := enums.ParseVehicleType(strings.TrimSpace(body.VehicleType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid vehicle type %q", body.VehicleType)))
			return
		}

		partner, err := svc.Create(r.Context(), partners.CreateInput{
			Name:        body.Name,
			Phone:       body.Phone,
			Email:       body.Email,
			City:        body.City,
			VehicleType: vehicle,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, partner)
	}
}

// ListPartners returns a page of partners filtered by city and status.
func ListPartners(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := partners.ListFilters{
			City: strings.TrimSpace(r.URL.Query().Get("city")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePartnerStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid status %q", raw)))
				return
			}
			filters.Status = &status
		}

		page, err := svc.List(r.Context(), partners.ListParams{Page: params, Filters: filters})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetPartner returns one partner by id.
func GetPartner(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		id, err := parsePartnerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partner, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, partner)
	}
}

// AvailablePartners lists AVAILABLE partners in a city in assignment order.
func AvailablePartners(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		city := strings.TrimSpace(r.URL.Query().Get("city"))
		list, err := svc.AvailableByCity(r.Context(), city)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// UpdatePartnerStatus sets a partner's availability status directly.
func UpdatePartnerStatus(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		id, err := parsePartnerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePartnerStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePartnerStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid status %q", body.Status)))
			return
		}

		partner, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, partner)
	}
}

func parsePartnerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "partner id must be a positive integer")
	}
	return id, nil
}
