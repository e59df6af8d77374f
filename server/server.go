// Package server exposes dish selection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"menuplan/catalog"
	"menuplan/constraint"
	"menuplan/diagnose"
	"menuplan/logic"
	"menuplan/planner"
	"menuplan/report"
	"menuplan/solver"
)

const maxBodyBytes = 1 << 20

type PlanRequest struct {
	Calories int   `json:"calories"`
	Dishes   int   `json:"dishes"`
	Alpha    *int  `json:"alpha,omitempty"`
	Disabled []int `json:"disabled,omitempty"`
	Explain  bool  `json:"explain,omitempty"`
}

type PlanResponse struct {
	report.Plan
	Conflicts []diagnose.Conflict `json:"conflicts,omitempty"`
}

type requestIDKey struct{}

type Server struct {
	catalog *catalog.Catalog
	solver  solver.Solver
	planner *planner.Planner
	logger  *slog.Logger
	timeout time.Duration
	workers int
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithTimeout bounds the solving time of each request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithWorkers bounds how many plans of one batch are solved at once.
func WithWorkers(n int) Option {
	return func(s *Server) {
		s.workers = n
	}
}

func New(cat *catalog.Catalog, sv solver.Solver, opts ...Option) *Server {
	s := &Server{catalog: cat, solver: sv}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.planner = planner.New(sv, planner.WithLogger(s.logger))
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, requestID, allowOrigins)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/dishes", s.listDishes)
	r.Post("/plan", s.plan)
	r.Post("/plans", s.plans)
	r.Post("/prolog", s.renderProlog)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr, "dishes", s.catalog.Len())

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func allowOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listDishes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Dishes())
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), decodeStatus(err))
		return
	}
	cfg, err := req.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	logger := s.logger.With("request_id", RequestID(ctx))

	sel, ok, err := s.planner.Select(ctx, s.catalog, cfg)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	resp, err := s.response(ctx, RequestID(ctx), cfg, sel, ok, req.Explain)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	logger.Info("planned", "feasible", ok, "dishes", len(sel))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) plans(w http.ResponseWriter, r *http.Request) {
	var reqs []PlanRequest
	if err := decode(w, r, &reqs); err != nil {
		http.Error(w, err.Error(), decodeStatus(err))
		return
	}
	cfgs := make([]planner.Config, len(reqs))
	for i, req := range reqs {
		cfg, err := req.config()
		if err != nil {
			http.Error(w, fmt.Sprintf("plan %d: %v", i, err), http.StatusBadRequest)
			return
		}
		cfgs[i] = cfg
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	logger := s.logger.With("request_id", RequestID(ctx))

	outcomes, err := s.planner.SelectAll(ctx, s.catalog, cfgs, s.workers)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	resps := make([]PlanResponse, len(outcomes))
	for i, o := range outcomes {
		resps[i], err = s.response(ctx, uuid.NewString(), cfgs[i], o.Selection, o.Feasible, reqs[i].Explain)
		if err != nil {
			s.fail(w, logger, err)
			return
		}
	}
	logger.Info("planned batch", "plans", len(resps))
	writeJSON(w, http.StatusOK, resps)
}

// renderProlog shows the program the prolog backend would run for a request.
func (s *Server) renderProlog(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), decodeStatus(err))
		return
	}
	cfg, err := req.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	program, err := solver.RenderProlog(constraint.Encode(s.catalog, cfg))
	if err != nil {
		s.fail(w, s.logger, err)
		return
	}
	// the program must at least load; model/1 itself is not run here
	if _, err := logic.NewProlog().ConsultAndCheck(program, "true."); err != nil {
		s.fail(w, s.logger, fmt.Errorf("rendered program does not load: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, program)
}

func (s *Server) response(ctx context.Context, id string, cfg planner.Config, sel planner.Selection, ok, explain bool) (PlanResponse, error) {
	resp := PlanResponse{Plan: report.NewPlan(s.catalog, sel, ok)}
	resp.ID = id
	if ok || !explain {
		return resp, nil
	}
	conflicts, err := diagnose.Explain(ctx, s.solver, constraint.Encode(s.catalog, cfg), s.logger)
	if err != nil {
		return resp, err
	}
	resp.Conflicts = conflicts
	return resp, nil
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	logger.Error("planning failed", "error", err)
	http.Error(w, err.Error(), status)
}

func (r PlanRequest) config() (planner.Config, error) {
	cfg := planner.NewConfig(r.Calories, r.Dishes)
	if r.Dishes < 0 {
		return cfg, fmt.Errorf("dishes must not be negative, got %d", r.Dishes)
	}
	if r.Alpha != nil {
		if *r.Alpha < 0 {
			return cfg, fmt.Errorf("alpha must not be negative, got %d", *r.Alpha)
		}
		cfg.Alpha = *r.Alpha
	}
	return cfg.Disable(r.Disabled...), nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decodeStatus is 413 for a body over maxBodyBytes and 400 otherwise.
func decodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
