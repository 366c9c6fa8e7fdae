// Package server assembles the development storefront backend: in-memory
// repositories, services, handlers and the gorilla/mux router.
package server

import (
	"context"
	"net/http"
	"time"

	"storefront-client/internal/config"
	"storefront-client/internal/handler"
	"storefront-client/internal/middleware"
	"storefront-client/internal/repository"
	"storefront-client/internal/service"
	"storefront-client/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Router    *mux.Router
	Auth      *service.AuthService
	Carts     *service.CartService
	Addresses *service.AddressService
	Manager   *websocket.Manager
	Registry  *prometheus.Registry
}

func New(cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository()
	productRepo := repository.NewProductRepository(repository.SeedProducts())
	couponRepo := repository.NewCouponRepository(repository.SeedCoupons(time.Now()))
	cartRepo := repository.NewCartRepository()
	addressRepo := repository.NewAddressRepository()
	orderRepo := repository.NewOrderRepository()

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration, cfg.Server.BcryptCost)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, wsManager)
	couponService := service.NewCouponService(couponRepo, cartRepo)
	chatService := service.NewChatService(productRepo)
	productService := service.NewProductService(productRepo)
	addressService := service.NewAddressService(addressRepo)
	orderService := service.NewOrderService(orderRepo, addressRepo, productRepo, couponRepo, cartService)

	s := &Server{
		Auth:      authService,
		Carts:     cartService,
		Addresses: addressService,
		Manager:   wsManager,
		Registry:  newRegistry(wsManager),
	}

	s.Router = s.routes(cfg,
		handler.NewAuthHandler(authService),
		handler.NewCartHandler(cartService),
		handler.NewCouponHandler(couponService),
		handler.NewChatHandler(chatService),
		handler.NewProductHandler(productService),
		handler.NewOrderHandler(orderService, addressService),
		handler.NewWebSocketHandler(wsManager, authService, cfg.WebSocket),
	)

	return s
}

// Run drives the websocket hub until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.Manager.Run(ctx)
}

func (s *Server) routes(cfg *config.Config, authHandler *handler.AuthHandler, cartHandler *handler.CartHandler,
	couponHandler *handler.CouponHandler, chatHandler *handler.ChatHandler, productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler, wsHandler *handler.WebSocketHandler) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh-token", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/chat", chatHandler.Send).Methods("POST", "OPTIONS")
	api.HandleFunc("/products", productHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/products/{id}", productHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/ws", wsHandler.HandleConnection)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(s.Auth))

	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	protected.HandleFunc("/auth/me/address", orderHandler.Addresses).Methods("GET", "OPTIONS")
	protected.HandleFunc("/auth/me/address/create", orderHandler.CreateAddress).Methods("POST", "OPTIONS")

	protected.HandleFunc("/cart", cartHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/cart/add", cartHandler.Add).Methods("POST", "OPTIONS")
	protected.HandleFunc("/cart/update", cartHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/cart/remove/{id}", cartHandler.Remove).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/cart/clear", cartHandler.Clear).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/cart/apply-coupon", cartHandler.ApplyCoupon).Methods("POST", "OPTIONS")
	protected.HandleFunc("/cart/coupon", cartHandler.RemoveCoupon).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/coupons/available", couponHandler.Available).Methods("GET", "OPTIONS")
	protected.HandleFunc("/coupons/validate", couponHandler.Validate).Methods("POST", "OPTIONS")

	protected.HandleFunc("/orders/checkout", orderHandler.Checkout).Methods("POST", "OPTIONS")
	protected.HandleFunc("/orders/me", orderHandler.List).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", healthHandler).Methods("GET")
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	return r
}

func newRegistry(manager *websocket.Manager) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "storefront_stub",
			Name:      "websocket_connections",
			Help:      "Open cart push connections.",
		}, func() float64 { return float64(manager.Connections()) }),
	)
	return reg
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"storefront-stub"}`))
}
