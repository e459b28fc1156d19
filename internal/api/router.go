package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/auth"
	"github.com/bellacita/salon-api/internal/booking"
	"github.com/bellacita/salon-api/internal/catalog"
	"github.com/bellacita/salon-api/internal/payments"
	"github.com/bellacita/salon-api/internal/reports"
)

type RouterConfig struct {
	Bookings    *booking.Service
	BookingRepo booking.Repository
	Catalog     catalog.Repository
	Payments    *payments.Service
	Reports     *reports.Repository
	Auth        *auth.Service
	JWTSecret   string
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Env         string
	Version     string
	Log         *zap.Logger
	HTTPMetrics *HTTPMetrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	if cfg.Log != nil {
		r.Use(LoggingMiddleware(cfg.Log))
	}
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}

	// Health and metrics
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", loginHandler(cfg.Auth))

		// Everything else requires a specialist session.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.JWTSecret))

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", createAppointmentHandler(cfg.Bookings))
				r.Get("/", listAppointmentsHandler(cfg.Bookings))
				r.Get("/{id}", getAppointmentHandler(cfg.Bookings))
				r.Put("/{id}/reschedule", rescheduleAppointmentHandler(cfg.Bookings))
				r.Put("/{id}/start", transitionAppointmentHandler(func(req *http.Request, id uuid.UUID) (*booking.Appointment, error) {
					return cfg.Bookings.Start(req.Context(), id)
				}))
				r.Put("/{id}/cancel", transitionAppointmentHandler(func(req *http.Request, id uuid.UUID) (*booking.Appointment, error) {
					return cfg.Bookings.Cancel(req.Context(), id)
				}))
				r.Put("/{id}/finalize", transitionAppointmentHandler(func(req *http.Request, id uuid.UUID) (*booking.Appointment, error) {
					return cfg.Bookings.Finalize(req.Context(), id)
				}))
			})

			r.Route("/services", func(r chi.Router) {
				r.Post("/", createServiceHandler(cfg.Catalog))
				r.Get("/", listServicesHandler(cfg.Catalog))
				r.Get("/{id}", getServiceHandler(cfg.Catalog))
				r.Put("/{id}", updateServiceHandler(cfg.Catalog))
				r.Put("/{id}/deactivate", deactivateServiceHandler(cfg.Catalog))
			})

			r.Route("/clients", func(r chi.Router) {
				r.Post("/", createClientHandler(cfg.BookingRepo))
				r.Get("/", listClientsHandler(cfg.BookingRepo))
				r.Get("/{id}", getClientHandler(cfg.BookingRepo))
				r.Put("/{id}", updateClientHandler(cfg.BookingRepo))
				r.Delete("/{id}", deleteClientHandler(cfg.BookingRepo))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", registerPaymentHandler(cfg.Payments))
				r.Get("/", listPaymentsHandler(cfg.Payments))
				r.Get("/appointment/{id}", paymentByAppointmentHandler(cfg.Payments))
				r.Get("/client/{id}", paymentsByClientHandler(cfg.Payments))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/sales", salesReportHandler(cfg.Reports))
				r.Get("/appointments", appointmentVolumeHandler(cfg.Reports))
				r.Get("/top-services", topServicesHandler(cfg.Reports))
				r.Get("/frequent-clients", frequentClientsHandler(cfg.Reports))
			})
		})
	})

	return r
}
