package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	inferhandler "github.com/sibyl-lab/sibyl-sft/internal/handler/infer"
	middlewarePkg "github.com/sibyl-lab/sibyl-sft/internal/middleware"
	inferservice "github.com/sibyl-lab/sibyl-sft/internal/service/infer"
	"github.com/sibyl-lab/sibyl-sft/pkg/utils"
)

// NewRouter wires HTTP routes to the inference harness.
func NewRouter(harness *inferservice.Harness) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	inferHandler := inferhandler.New(harness)

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{
				"status": "ok",
				"model":  harness.Generator().Name(),
			})
		})

		inferHandler.RegisterRoutes(api)
	})

	return r
}
