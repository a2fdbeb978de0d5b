// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"wealthtracker/internal/backend"
	"wealthtracker/internal/cache"
	"wealthtracker/internal/core"
	"wealthtracker/internal/ledger"
	"wealthtracker/internal/log"
	"wealthtracker/internal/services"
)

type Server struct {
	http.Server
	store       backend.Store
	engine      *ledger.Engine
	txnService  *services.TransactionService
	notifier    *services.Notifier
	rateLimiter *rateLimiter
	logger      *log.Logger

	// Reference data caches. Balances are computed fresh on every request,
	// only the rarely changing lookup tables are cached.
	currencyCache    *cache.LRUCache[[]core.Currency]
	accountTypeCache *cache.LRUCache[[]core.AccountType]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store backend.Store, notifier *services.Notifier) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            store,
		engine:           ledger.NewEngine(store),
		txnService:       services.NewTransactionService(store, notifier),
		notifier:         notifier,
		rateLimiter:      newRateLimiter(),
		logger:           log.FromContext(context.Background()).WithComponent(log.ComponentHTTP),
		currencyCache:    cache.NewLRUCache[[]core.Currency](1, 5*time.Minute),
		accountTypeCache: cache.NewLRUCache[[]core.AccountType](1, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /currencies/{$}", s.wrap(s.handleCreateCurrency))
	mux.HandleFunc("GET /currencies/{$}", s.wrap(s.handleListCurrencies))
	mux.HandleFunc("GET /currencies/{id}", s.wrap(s.handleGetCurrency))
	mux.HandleFunc("PATCH /currencies/{id}", s.wrap(s.handleUpdateCurrency))
	mux.HandleFunc("DELETE /currencies/{id}", s.wrap(s.handleDeleteCurrency))

	mux.HandleFunc("POST /account_types/{$}", s.wrap(s.handleCreateAccountType))
	mux.HandleFunc("GET /account_types/{$}", s.wrap(s.handleListAccountTypes))
	mux.HandleFunc("GET /account_types/{id}", s.wrap(s.handleGetAccountType))
	mux.HandleFunc("PATCH /account_types/{id}", s.wrap(s.handleUpdateAccountType))
	mux.HandleFunc("DELETE /account_types/{id}", s.wrap(s.handleDeleteAccountType))

	mux.HandleFunc("POST /accounts/{$}", s.wrap(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts/{$}", s.wrap(s.handleListAccounts))
	mux.HandleFunc("GET /accounts/{id}", s.wrap(s.handleGetAccount))
	mux.HandleFunc("PATCH /accounts/{id}", s.wrap(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.wrap(s.handleDeleteAccount))

	mux.HandleFunc("POST /categories/{$}", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/{$}", s.wrap(s.handleListCategories))
	mux.HandleFunc("GET /categories/{id}", s.wrap(s.handleGetCategory))
	mux.HandleFunc("PATCH /categories/{id}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("POST /sub_categories/{$}", s.wrap(s.handleCreateSubCategory))
	mux.HandleFunc("GET /sub_categories/{$}", s.wrap(s.handleListSubCategories))
	mux.HandleFunc("GET /sub_categories/{id}", s.wrap(s.handleGetSubCategory))
	mux.HandleFunc("PATCH /sub_categories/{id}", s.wrap(s.handleUpdateSubCategory))
	mux.HandleFunc("DELETE /sub_categories/{id}", s.wrap(s.handleDeleteSubCategory))

	mux.HandleFunc("POST /transactions/{$}", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions/{$}", s.wrap(s.handleListTransactions))
	mux.HandleFunc("GET /transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("PATCH /transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("POST /planned_transactions/{$}", s.wrap(s.handleCreatePlannedTransaction))
	mux.HandleFunc("GET /planned_transactions/{$}", s.wrap(s.handleListPlannedTransactions))
	mux.HandleFunc("GET /planned_transactions/{id}", s.wrap(s.handleGetPlannedTransaction))
	mux.HandleFunc("PATCH /planned_transactions/{id}", s.wrap(s.handleUpdatePlannedTransaction))
	mux.HandleFunc("DELETE /planned_transactions/{id}", s.wrap(s.handleDeletePlannedTransaction))

	mux.HandleFunc("POST /budgets/{$}", s.wrap(s.handleCreateBudget))
	mux.HandleFunc("GET /budgets/{$}", s.wrap(s.handleListBudgets))
	mux.HandleFunc("GET /budgets/{id}", s.wrap(s.handleGetBudget))
	mux.HandleFunc("PATCH /budgets/{id}", s.wrap(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.wrap(s.handleDeleteBudget))

	mux.HandleFunc("GET /total_balance/{$}", s.wrap(s.handleTotalBalance))
	mux.HandleFunc("GET /total_balance_per_account/{$}", s.wrap(s.handleTotalBalancePerAccount))
	mux.HandleFunc("GET /running_balance/{$}", s.wrap(s.handleRunningBalance))

	return s
}

// wrap adds security headers, rate limiting and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = context.WithValue(ctx, log.LoggerContextKey, s.logger.With("request_id", requestID))
		r = r.WithContext(ctx)

		// Rate limit writes only; reads are cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Detail: "rate limit exceeded"})
			return
		}

		securityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		log.HTTPEnd(ctx, log.FromContext(ctx), r, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.currencyCache.CleanExpired() + s.accountTypeCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady pings the store so load balancers stop routing to an instance
// whose database is gone.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
