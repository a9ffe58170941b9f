package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/shopfront/internal/auth"
	"github.com/mmynk/shopfront/internal/mcp"
	"github.com/mmynk/shopfront/internal/middleware"
	"github.com/mmynk/shopfront/internal/session"
	"github.com/mmynk/shopfront/internal/spa"
	"github.com/mmynk/shopfront/internal/storage"
)

// Deps is the state and collaborators the HTTP surface is built on.
type Deps struct {
	Catalog  storage.Catalog
	Orders   storage.OrderStore
	Users    storage.UserSlot
	Sessions session.Registry

	// Strategy authenticates every API route. Requests it rejects get 401.
	Strategy auth.Strategy

	// Identity optionally names the user behind a request (bearer tokens).
	// It never rejects a request on its own.
	Identity auth.Strategy

	Passwords *auth.PasswordAuthenticator
	JWT       *auth.JWTManager

	// StaticDir is the SPA asset root.
	StaticDir string

	// Metrics receives the HTTP and state collectors and is served on /metrics.
	Metrics *prometheus.Registry

	Logger *slog.Logger
}

// NewRouter wires every route.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := d.Metrics
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	catalogSvc := NewCatalogService(d.Catalog)
	orderSvc := NewOrderService(d.Catalog, d.Orders, d.Users, logger)
	authSvc := NewAuthService(d.Passwords, d.JWT, logger)
	mcpSvc := NewMCPService(d.Sessions, mcp.NewToolbox(d.Catalog, d.Orders), logger)

	metrics := middleware.NewMetrics(reg)
	registerStateGauges(reg, d)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(metrics.Handler)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Strategy))
		if d.Identity != nil {
			r.Use(middleware.IdentifyUser(d.Identity))
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/items", catalogSvc.ListItems)
			r.Get("/items/search", catalogSvc.SearchItems)
			r.Get("/items/{id}", catalogSvc.GetItem)

			r.Get("/orders", orderSvc.ListOrders)
			r.Post("/orders", orderSvc.CreateOrder)
			r.Delete("/orders/{id}", orderSvc.DeleteOrder)
		})

		r.Route("/order", func(r chi.Router) {
			r.Get("/status", orderSvc.OrderStatus)
			r.Post("/calculate-bulk", orderSvc.CalculateBulk)
			r.Post("/update-shipping", orderSvc.UpdateShipping)
			r.Put("/put_order/{id}", orderSvc.PutOrder)
		})

		r.Post("/login_user", authSvc.Login)
		r.Post("/logout", authSvc.Logout)

		r.Route("/mcp", func(r chi.Router) {
			r.Post("/session/open", mcpSvc.OpenSession)
			r.Post("/session/close", mcpSvc.CloseSession)
			r.Post("/context/request", mcpSvc.ContextRequest)
			r.Post("/tool/run", mcpSvc.RunTool)
		})
	})

	r.Get("/*", spa.New(d.StaticDir).ServeHTTP)

	return r
}

// registerStateGauges exposes the size of the in-process state.
func registerStateGauges(reg prometheus.Registerer, d Deps) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "shopfront_mcp_sessions",
			Help: "Number of open MCP sessions",
		}, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			n, err := d.Sessions.Len(ctx)
			if err != nil {
				return 0
			}
			return float64(n)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "shopfront_orders",
			Help: "Number of orders held in memory",
		}, func() float64 {
			return float64(len(d.Orders.All()))
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "shopfront_catalog_items",
			Help: "Number of catalog items",
		}, func() float64 {
			return float64(len(d.Catalog.List()))
		}),
	)
}
