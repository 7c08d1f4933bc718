package http

import (
	"log/slog"
	"os"

	"github.com/billora/invoicing-backend-go/internal/handler/http/middleware"
	"github.com/billora/invoicing-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	invoiceHandler InvoiceHandler,
	customerHandler CustomerHandler,
	notificationHandler NotificationHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "billora-api"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// The stream authenticates with its own short-lived token, so it
		// sits outside the access-token group.
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.List)
				r.Post("/", invoiceHandler.Create)
				r.Get("/stats", invoiceHandler.Stats)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", invoiceHandler.Get)
					r.Put("/", invoiceHandler.Update)
					r.Delete("/", invoiceHandler.Delete)
					r.Post("/send", invoiceHandler.Send)
					r.Post("/payments", invoiceHandler.RecordPayment)
				})
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", customerHandler.Get)
					r.Put("/", customerHandler.Update)
					r.Delete("/", customerHandler.Delete)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Patch("/read", notificationHandler.MarkAsRead)
				r.Post("/read-all", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Get("/sse-token", notificationHandler.GetStreamToken)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.Get)
				r.Put("/", settingsHandler.Update)
			})

			r.Get("/dashboard/stats", invoiceHandler.DashboardStats)
		})
	})
	return r
}
