package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// newRouter wires the services, interceptors and auxiliary endpoints.
func newRouter(cfg *config.Config, store storage.Store, logger *slog.Logger) http.Handler {
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	groupSvc := service.NewGroupService(store, logger)
	ledgerSvc := service.NewLedgerService(store, ledger.New(ledger.WithLogger(logger)), m, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	authPath, authHandler := apiconnect.NewAuthServiceHandler(authSvc, interceptors)
	r.Mount(authPath, authHandler)

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(groupSvc, interceptors)
	r.Mount(groupPath, groupHandler)

	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(ledgerSvc, interceptors)
	r.Mount(ledgerPath, ledgerHandler)

	return r
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
