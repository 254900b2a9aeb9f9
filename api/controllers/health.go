package controllers

import (
	"context"
	"net/http"

	"github.com/routeflow/routeflow-backend/api/responses"
	"github.com/routeflow/routeflow-backend/pkg/config"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/logger"
)

const envHeader = "X-RouteFlow-Env"

// ReadyCheck pings one dependency. The readiness endpoint fails on the first
// check that errors.
type ReadyCheck func(ctx context.Context) error

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready").
						WithDetails(map[string]string{"dependency": name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
