package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/fxplanner-system/internal/middleware"
)

// planID извлекает идентификатор плана из параметров маршрута.
func planID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(h.auth.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", h.GetSettings)
		r.Get("/users", h.GetUsers)

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.CreatePlan)
			r.Post("/preview", h.PreviewPlan)
			r.Get("/", h.ListPlans)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPlan)
				r.Post("/activate", h.ActivatePlan)
				r.Post("/cancel", h.CancelPlan)
				r.Post("/complete", h.CompletePlan)
				r.Get("/activity", h.GetActivity)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
