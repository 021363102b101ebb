package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/services"
)

// Server is the JSON API. Every /api/expenses route runs behind the bearer
// token middleware; the auth routes are open but rate limited per client IP
// to slow down credential stuffing.
type Server struct {
	http.Server

	auth     *services.AuthService
	expenses *services.ExpenseService

	tokenCache  *cache.LRUCache[int64]
	rateLimiter *ratelimit.Limiter

	readyCheck func(ctx context.Context) error

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// readyCheck may be nil; it backs /readyz.
func NewServer(addr string, authSvc *services.AuthService, expenseSvc *services.ExpenseService, readyCheck func(ctx context.Context) error) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:        authSvc,
		expenses:    expenseSvc,
		tokenCache:  cache.NewLRUCache[int64](1000, 5*time.Minute),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		readyCheck:  readyCheck,
	}

	extractor := security.NewExtractor()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Only the credential endpoints are rate limited; expense traffic from
	// an authenticated client is not throttled
	limitAuth := s.rateLimiter.Middleware(extractor.ExtractClientIP, nil)
	mux.Handle("POST /api/auth/register", limitAuth(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/auth/login", limitAuth(http.HandlerFunc(s.handleLogin)))

	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractor.ExtractClientIP)

	var handler http.Handler = mux
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown stops background cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readyCheck(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "not ready"})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
