package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"activityScope/internal/dashboard"
	"activityScope/internal/feed"
	"activityScope/internal/metrics"
	"activityScope/internal/view"
	"activityScope/internal/wallet"
)

// Query is the cached activity feed.
type Query interface {
	Snapshot() feed.Result
	EnsureFresh(ctx context.Context) feed.Result
	Refetch(ctx context.Context) feed.Result
}

// AccountSource reports the connected wallet.
type AccountSource interface {
	Account(ctx context.Context) (wallet.Account, error)
}

// Dashboard builds proposal summaries for an account.
type Dashboard interface {
	Summary(ctx context.Context, acc wallet.Account) (dashboard.Summary, error)
}

type Config struct {
	Addr            string
	RequiredChainID uint64
	NetworkName     string
	ExplorerHost    string
	Limit           int
}

// Checker pings dependencies for /healthz.
type Checker struct {
	RPCPing func(ctx context.Context) error
	DBPing  func(ctx context.Context) error
}

type Server struct {
	cfg      Config
	query    Query
	accounts AccountSource
	checker  Checker
	logger   *zap.Logger
	router   *mux.Router

	dashboard Dashboard
}

func New(cfg Config, query Query, accounts AccountSource, checker Checker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		query:    query,
		accounts: accounts,
		checker:  checker,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.router.HandleFunc("/activity", s.handleActivity).Methods(http.MethodGet)
	s.router.HandleFunc("/activity/refresh", s.handleRefresh).Methods(http.MethodPost)
	s.router.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return s
}

// SetDashboard enables GET /dashboard.
func (s *Server) SetDashboard(d Dashboard) {
	s.dashboard = d
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, r, func(ctx context.Context) feed.Result {
		return s.query.EnsureFresh(ctx)
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, r, func(ctx context.Context) feed.Result {
		return s.query.Refetch(ctx)
	})
}

func (s *Server) serveView(w http.ResponseWriter, r *http.Request, load func(context.Context) feed.Result) {
	limit := s.cfg.Limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ctx := r.Context()
	acc, err := s.accounts.Account(ctx)
	if err != nil {
		s.logger.Warn("read account", zap.Error(err))
	}

	var result feed.Result
	if acc.Connected && acc.ChainID == s.cfg.RequiredChainID {
		result = load(ctx)
	} else {
		result = s.query.Snapshot()
	}

	snap := view.Evaluate(view.Input{
		Account:         acc,
		RequiredChainID: s.cfg.RequiredChainID,
		NetworkName:     s.cfg.NetworkName,
		Result:          result,
		Limit:           limit,
		ExplorerHost:    s.cfg.ExplorerHost,
		Now:             time.Now(),
	})

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := view.RenderText(w, snap); err != nil {
			s.logger.Warn("render activity", zap.Error(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.dashboard == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dashboard is not configured"})
		return
	}

	ctx := r.Context()
	acc, err := s.accounts.Account(ctx)
	if err != nil {
		s.logger.Warn("read account", zap.Error(err))
	}

	code := http.StatusOK
	sum, err := s.dashboard.Summary(ctx, acc)
	if err != nil {
		s.logger.Warn("dashboard summary", zap.Error(err))
		code = http.StatusBadGateway
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		if err := dashboard.RenderText(w, sum); err != nil {
			s.logger.Warn("render dashboard", zap.Error(err))
		}
		return
	}
	writeJSON(w, code, sum)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	check := func(name string, ping func(context.Context) error) {
		if ping == nil {
			return
		}
		if err := ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "fail"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			return
		}
		status[name] = "ok"
	}
	check("rpc", s.checker.RPCPing)
	check("db", s.checker.DBPing)

	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
