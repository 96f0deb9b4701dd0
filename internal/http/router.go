package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/sitebook/internal/http/expense"
	"github.com/MrJamesThe3rd/sitebook/internal/http/payment"
	"github.com/MrJamesThe3rd/sitebook/internal/http/project"
	"github.com/MrJamesThe3rd/sitebook/internal/http/report"
	"github.com/MrJamesThe3rd/sitebook/internal/http/stage"
)

func New(
	allowedOrigins []string,
	projectV1 *project.Handler,
	stagesV1 *stage.Handler,
	expensesV1 *expense.Handler,
	paymentsV1 *payment.Handler,
	reportsV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			projectV1.Routes(r)
		})

		r.Route("/stages", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			stagesV1.Routes(r)
		})

		// Not restricted to JSON: /expenses/import takes a multipart upload.
		r.Route("/expenses", expensesV1.Routes)

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			paymentsV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)
	})

	return router
}
