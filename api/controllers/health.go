package controllers

import (
	"net/http"

	"github.com/partspoint/checkout-backend/api/responses"
	"github.com/partspoint/checkout-backend/pkg/config"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/logger"
	pkgredis "github.com/partspoint/checkout-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartsPoint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. The session store is checked when redis is
// wired; the in-memory fallback is always ready.
func HealthReady(cfg *config.Config, pinger pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartsPoint-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
