// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/medrush/opsconsole/internal/api"
	"github.com/medrush/opsconsole/internal/api/bookings"
	"github.com/medrush/opsconsole/internal/api/content"
	"github.com/medrush/opsconsole/internal/api/dashboard"
	"github.com/medrush/opsconsole/internal/api/drivers"
	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/api/partners"
	"github.com/medrush/opsconsole/internal/api/transactions"
	"github.com/medrush/opsconsole/internal/api/vehicles"
	"github.com/medrush/opsconsole/internal/api/vendors"
	"github.com/medrush/opsconsole/internal/config"
	"github.com/medrush/opsconsole/internal/platform"
	"github.com/medrush/opsconsole/internal/ratelimit"
	"github.com/medrush/opsconsole/internal/snapshot"
)

func newServer(cfg *config.Config, client *platform.Client, store *snapshot.Store) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithBearerToken,
	)

	registerRoutes(router, cfg, client, store)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, client *platform.Client, store *snapshot.Store) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	opts := listings.Options{
		PageSize:      cfg.Listing.PageSize,
		ExportMaxRows: cfg.Listing.ExportMaxRows,
		Limiter:       ratelimit.New(ratelimit.DefaultConfig()),
		Snapshots:     store,
	}

	// Listing tabs
	bookings.Register(mux, client, opts)
	drivers.Register(mux, client, opts)
	vendors.Register(mux, client, opts)
	partners.Register(mux, client, opts)
	vehicles.Register(mux, client, opts)
	transactions.Register(mux, client, opts)
	content.Register(mux, client, opts)

	// Dashboard
	dashboard.New(store).Register(mux)
}
