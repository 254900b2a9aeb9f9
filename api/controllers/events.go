package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/routeflow/routeflow-backend/api/responses"
	"github.com/routeflow/routeflow-backend/internal/notifications"
	pkgerrors "github.com/routeflow/routeflow-backend/pkg/errors"
	"github.com/routeflow/routeflow-backend/pkg/logger"
)

// OrderEvents streams order lifecycle events to the caller over SSE. The
// subscription is dropped when the client disconnects or the broker closes.
func OrderEvents(broker *notifications.Broker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if broker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event broker unavailable"))
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		events, cancel := broker.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "encode order event", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
				flusher.Flush()
			}
		}
	}
}
