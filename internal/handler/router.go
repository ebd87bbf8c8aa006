package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/metrics"
	"github.com/RileyK05/basic-crm/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health          *HealthHandler
	Dashboard       *DashboardHandler
	Customers       *CustomerHandler
	Products        *ProductHandler
	Purchases       *PurchaseHandler
	Leads           *LeadHandler
	Engagements     *EngagementHandler
	InternalMetrics *InternalMetricsHandler
	Auth            *AuthHandler
}

// NewRouter builds the route table. loginLimiter throttles signup and login
// per client address.
func NewRouter(h Handlers, sessions *middleware.Sessions, loginLimiter *middleware.RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)

	router.HandleFunc("/health", h.Health.HandleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/dashboard", h.Dashboard.Get).Methods(http.MethodGet)

	// Customers and their notes
	router.HandleFunc("/customers", h.Customers.List).Methods(http.MethodGet)
	router.HandleFunc("/customers", h.Customers.Create).Methods(http.MethodPost)
	router.HandleFunc("/customers/autocomplete", h.Customers.Autocomplete).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Get).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Update).Methods(http.MethodPut)
	router.HandleFunc("/customers/{id:[0-9]+}", h.Customers.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/customers/{id:[0-9]+}/notes", h.Customers.ListNotes).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id:[0-9]+}/notes", h.Customers.AddNote).Methods(http.MethodPost)
	router.HandleFunc("/customers/{id:[0-9]+}/lifetime-value", h.Customers.GetLifetimeValue).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id:[0-9]+}/lifetime-value", h.Customers.UpdateLifetimeValue).Methods(http.MethodPut)
	router.HandleFunc("/customers/{id:[0-9]+}/lifetime-value/recalculate", h.Customers.RecalculateLifetimeValue).Methods(http.MethodPost)
	router.HandleFunc("/notes/{id:[0-9]+}", h.Customers.UpdateNote).Methods(http.MethodPut)
	router.HandleFunc("/notes/{id:[0-9]+}", h.Customers.DeleteNote).Methods(http.MethodDelete)

	crud(router, "/products", h.Products.List, h.Products.Create, h.Products.Get, h.Products.Update, h.Products.Delete)
	crud(router, "/purchases", h.Purchases.List, h.Purchases.Create, h.Purchases.Get, h.Purchases.Update, h.Purchases.Delete)
	crud(router, "/leads", h.Leads.List, h.Leads.Create, h.Leads.Get, h.Leads.Update, h.Leads.Delete)
	crud(router, "/engagements", h.Engagements.List, h.Engagements.Create, h.Engagements.Get, h.Engagements.Update, h.Engagements.Delete)

	// Company metrics
	router.HandleFunc("/internal/metrics", h.InternalMetrics.Get).Methods(http.MethodGet)
	router.HandleFunc("/internal/metrics", h.InternalMetrics.Update).Methods(http.MethodPut)
	router.HandleFunc("/internal/metrics/{metric}", h.InternalMetrics.UpdateMetric).Methods(http.MethodPut)
	router.HandleFunc("/internal/lifetime-value", h.InternalMetrics.UpdateAverageLifetimeValue).Methods(http.MethodPut)
	router.HandleFunc("/internal/lifetime-value/recalculate", h.InternalMetrics.RecalculateAverageLifetimeValue).Methods(http.MethodPost)

	// Identity
	router.HandleFunc("/auth/signup", loginLimiter.Limit(h.Auth.Signup)).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", loginLimiter.Limit(h.Auth.Login)).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	router.HandleFunc("/account", sessions.RequireSession(h.Auth.GetAccount)).Methods(http.MethodGet)
	router.HandleFunc("/account", sessions.RequireSession(h.Auth.UpdateAccount)).Methods(http.MethodPut)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "No route matches "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return router
}

// crud mounts list, create, get, update and delete for a resource
func crud(router *mux.Router, base string, list, create, get, update, remove http.HandlerFunc) {
	item := base + "/{id:[0-9]+}"
	router.HandleFunc(base, list).Methods(http.MethodGet)
	router.HandleFunc(base, create).Methods(http.MethodPost)
	router.HandleFunc(item, get).Methods(http.MethodGet)
	router.HandleFunc(item, update).Methods(http.MethodPut)
	router.HandleFunc(item, remove).Methods(http.MethodDelete)
}

// Wrap applies the outer middleware chain: request ids and logging, then
// panic recovery
func Wrap(router http.Handler, logger *zap.Logger) http.Handler {
	return middleware.RequestLogger(logger)(middleware.Recovery(logger)(router))
}
