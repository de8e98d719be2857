package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"shespeaks/internal/logger"
	"shespeaks/internal/service"
	"shespeaks/internal/transport/rest/handler"
	"shespeaks/internal/transport/rest/middleware"
	"shespeaks/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	DashboardService *service.DashboardService
	WSHub            *ws.Hub
	AllowedOrigins   []string
	Logger           *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService, log)
	wsHandler := ws.NewHandler(c.WSHub, c.AllowedOrigins, log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.AllowedOrigins))
	r.Use(middleware.Logging(log.WithComponent("http")))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/pages", dashboardHandler.ListPages).Methods("GET", "OPTIONS")
	v1.HandleFunc("/pages/{page}", dashboardHandler.GetPage).Methods("GET", "OPTIONS")

	// WebSocket route (read-only broadcast)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/export", dashboardHandler.Export).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/refresh", dashboardHandler.Refresh).Methods("POST", "OPTIONS")

	return r
}
