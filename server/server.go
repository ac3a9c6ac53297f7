// Package server exposes the analyzer, the calculus tools, the formula
// registry and the simulations over HTTP.
//
// Routes:
//
//	POST   /tool                  tool call {tool, params}
//	GET    /schema                tool schema for agent registration
//	GET    /health                liveness
//	GET    /metrics               Prometheus metrics
//	POST   /v1/analyze            function analysis report
//	GET    /v1/formulas           formula catalogue, ?subject=&topic=
//	POST   /v1/formulas/:id       evaluate one formula
//	POST   /v1/simulations/:kind  projectile, pendulum, circuit or wave
//	GET    /v1/history/:user      newest-first calculation history
//	DELETE /v1/history/:user      clear a user's history
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/config"
	"github.com/njchilds90/alevel/formula"
	"github.com/njchilds90/alevel/history"
)

const (
	defaultUser      = "anonymous"
	userHeader       = "X-User"
	requestIDHeader  = "X-Request-ID"
	defaultListLimit = 50
)

// Options wires the server to its collaborators. History may be nil, in
// which case nothing is recorded and the history routes answer 503.
type Options struct {
	Config   config.Server
	Analyzer *analyzer.Analyzer
	Formulas *formula.Registry
	History  *history.Store
	Logger   *slog.Logger
}

type Server struct {
	cfg      config.Server
	analyzer *analyzer.Analyzer
	formulas *formula.Registry
	tools    *Toolbox
	history  *history.Store
	log      *slog.Logger
	engine   *gin.Engine
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// New builds the route table. Zero options fall back to the defaults of
// config.Default, analyzer.New and formula.Default.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analyzer.New(analyzer.DefaultConfig(), opts.Logger)
	}
	if opts.Formulas == nil {
		opts.Formulas = formula.Default()
	}
	if opts.Config.BodyLimit <= 0 {
		opts.Config.BodyLimit = config.Default().Server.BodyLimit
	}
	s := &Server{
		cfg:      opts.Config,
		analyzer: opts.Analyzer,
		formulas: opts.Formulas,
		tools:    NewToolbox(opts.Analyzer, opts.Formulas),
		history:  opts.History,
		log:      opts.Logger,
	}

	r := gin.New()
	r.Use(s.requestID(), s.observe(), gin.CustomRecovery(s.recovered), s.limitBody())

	r.POST("/tool", s.handleTool)
	r.GET("/schema", func(c *gin.Context) { c.JSON(http.StatusOK, ToolSchema()) })
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/formulas", s.handleListFormulas)
	v1.POST("/formulas/:id", s.handleEvaluateFormula)
	v1.POST("/simulations/:kind", s.handleSimulation)
	v1.GET("/history/:user", s.handleListHistory)
	v1.DELETE("/history/:user", s.handleClearHistory)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured address until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ============================================================
// Middleware
// ============================================================

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		requestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger(c).Debug("request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds())
	}
}

func (s *Server) recovered(c *gin.Context, rec any) {
	s.logger(c).Error("panic in handler", "panic", rec, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL"})
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.BodyLimit)
		}
		c.Next()
	}
}

func (s *Server) logger(c *gin.Context) *slog.Logger {
	return s.log.With("request_id", c.GetString(requestIDHeader))
}

// bindJSON decodes the body into dst, answering 413 or 400 itself on
// failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "BODY_TOO_LARGE"})
		return false
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
	return false
}

// jsonDecoder is strict about unknown fields, like the tool protocol.
func jsonDecoder(c *gin.Context) *json.Decoder {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec
}

func userOf(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if u := c.GetHeader(userHeader); u != "" {
		return u
	}
	return defaultUser
}

// record appends to the history store when one is configured. Failures
// are logged and never fail the request.
func (s *Server) record(c *gin.Context, user string, kind history.Kind, input, output string) {
	if s.history == nil {
		return
	}
	_, err := s.history.Append(c.Request.Context(), history.Record{User: user, Kind: kind, Input: input, Output: output})
	if err != nil {
		historyWrites.WithLabelValues(string(kind), "error").Inc()
		s.logger(c).Warn("history append failed", "user", user, "kind", kind, "error", err)
		return
	}
	historyWrites.WithLabelValues(string(kind), "ok").Inc()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
