package ledger

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zombor/expense-tracker/internal/logger"
)

// Server handles HTTP requests for the ledger
type Server struct {
	service   *Service
	basicAuth BasicAuth
	mux       *http.ServeMux
	log       zerolog.Logger
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, basicAuth BasicAuth, log zerolog.Logger) *Server {
	return NewServerWithMux(service, basicAuth, http.NewServeMux(), log)
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, basicAuth BasicAuth, mux *http.ServeMux, log zerolog.Logger) *Server {
	s := &Server{
		service:   service,
		basicAuth: basicAuth,
		mux:       mux,
		log:       log,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Expense Tracker"`)
			writeError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Uploads
	s.mux.HandleFunc("POST /api/upload/receipt", s.requireAuth(s.handleUploadReceipt))
	s.mux.HandleFunc("POST /api/upload/statement", s.requireAuth(s.handleUploadStatement))
	s.mux.HandleFunc("POST /api/upload/pdf", s.requireAuth(s.handleUploadStatement))

	// Transactions (most specific paths first)
	s.mux.HandleFunc("GET /api/transactions/summary", s.requireAuth(s.handleSummary))
	s.mux.HandleFunc("GET /api/transactions/{id}/file", s.requireAuth(s.handleGetTransactionFile))
	s.mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	s.mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))
	s.mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	s.log.Info().Str("address", addr).Msg("Starting server")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// ServeHTTP implements http.Handler, wrapping every route with CORS handling.
// Handlers log through a request-scoped logger carried in the context.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.With().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Logger()
	r = r.WithContext(logger.WithContext(r.Context(), reqLog))
	s.corsMiddleware(s.mux).ServeHTTP(w, r)
}
