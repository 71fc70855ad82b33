package app

import (
	"context"
	"net/http"
	"time"

	middle "sitewatch/internals/middleware"
	"sitewatch/internals/modules/check"
	"sitewatch/internals/modules/site"
	"sitewatch/pkg/apperror"
	"sitewatch/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))

	r.With(middleware.Timeout(5*time.Second)).Get("/healthz", c.health)

	r.Route("/api/v1", func(v1 chi.Router) {
		// a batch probes sites one after another, so it gets no request timeout
		v1.Mount("/checks", check.Routes(c.checkHandler))

		v1.With(middleware.Timeout(5 * time.Second)).
			Mount("/sites", site.Routes(c.siteHandler))
	})

	return r
}

func (c *Container) health(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		c.Logger.Error().Err(err).Msg("health check failed")
		utils.WriteError(w, http.StatusServiceUnavailable, reqID, apperror.Dependency, "store unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "ok", struct{}{})
}
