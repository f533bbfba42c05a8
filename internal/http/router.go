package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"zaiqa-pos/internal/config"
	"zaiqa-pos/internal/http/handlers"
	"zaiqa-pos/internal/middleware"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/internal/payment"
	"zaiqa-pos/internal/register"
	"zaiqa-pos/internal/storage"
	"zaiqa-pos/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Deps struct {
	DB       *pgxpool.Pool
	Logger   *zap.Logger
	Config   config.Config
	Ledger   *order.Ledger
	Payments *payment.Processor
	Sessions *register.Reconciler
	Store    *storage.ObjectStore
	WS       *ws.Server
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.RequestID())

	cfg := deps.Config
	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{
		DB:       deps.DB,
		Logger:   deps.Logger,
		Config:   cfg,
		Ledger:   deps.Ledger,
		Payments: deps.Payments,
		Sessions: deps.Sessions,
		Store:    deps.Store,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/orders", h.PublicOrderCreate)
		r.Get("/orders/{orderNumber}", h.PublicOrderDetail)
		r.Post("/promos/validate", h.PublicPromoValidate)
		r.Post("/delivery/quote", h.PublicDeliveryQuote)
	})

	r.Route("/api/staff", func(r chi.Router) {
		r.Use(middleware.StaffAuth(cfg.JWTSecret))

		r.Post("/orders", h.POSOrderCreate)
		r.Get("/orders/{orderId}", h.POSOrderGet)
		r.Patch("/orders/{orderId}/status", h.OrderStatusPatch)

		r.Post("/orders/{orderId}/payments", h.PaymentSingle)
		r.Post("/orders/{orderId}/payments/split", h.PaymentSplit)
		r.Post("/payments/{paymentId}/refund", h.PaymentRefund)

		r.Post("/sessions", h.SessionOpen)
		r.Get("/sessions/current", h.SessionCurrent)
		r.Post("/sessions/{sessionId}/close", h.SessionClose)
		r.Get("/sessions/{sessionId}/report", h.SessionReport)
	})

	if deps.WS != nil {
		r.Get("/ws/kitchen", deps.WS.KitchenWS)
	}

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
