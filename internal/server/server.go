// Package server exposes grid editing and step-by-step search over HTTP for
// browser visualisation.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/config"
	"github.com/pdrpinto/gridastar/editor"
	"github.com/pdrpinto/gridastar/scenario"
)

var errSessionNotFound = errors.New("session not found")

// Server owns the sessions and the router serving them.
type Server struct {
	config   config.Config
	logger   *slog.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

// New builds a server from cfg. A nil logger discards.
func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		config:   cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	s.routes(router)
	s.router = router
	return s
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessions := router.Group("/sessions")
	{
		sessions.POST("", s.handleCreate)
		sessions.GET("/:id", s.handleGet)
		sessions.DELETE("/:id", s.handleDelete)
		sessions.POST("/:id/mode", s.handleMode)
		sessions.POST("/:id/click", s.handleClick)
		sessions.POST("/:id/reset", s.handleReset)
		sessions.POST("/:id/clear", s.handleClear)
		sessions.POST("/:id/resize", s.handleResize)
		sessions.POST("/:id/load", s.handleLoad)
		sessions.POST("/:id/step", s.handleStep)
		sessions.POST("/:id/solve", s.handleSolve)
		sessions.GET("/:id/stream", s.handleStream)
	}
}

// Handler is the router, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(began))
	}
}

type randomRequest struct {
	Clusters int     `json:"clusters" binding:"gte=0,lte=1000"`
	Steps    int     `json:"steps" binding:"gte=0,lte=100000"`
	Density  float64 `json:"density" binding:"gte=0,lte=1"`
	Seed     *int64  `json:"seed"`
}

type createRequest struct {
	Scenario     string         `json:"scenario" binding:"omitempty,oneof=normal wiki empty random"`
	Size         int            `json:"size" binding:"omitempty,gte=1,lte=256"`
	Heuristic    string         `json:"heuristic" binding:"omitempty,oneof=diagonal chebyshev euclidean"`
	Weighted     *bool          `json:"weighted"`
	Connectivity string         `json:"connectivity" binding:"omitempty,oneof=diagonal orthogonal 8 4"`
	Mode         string         `json:"mode" binding:"omitempty,oneof=none start end wall"`
	Random       *randomRequest `json:"random"`
}

// settings layers the request over the server configuration.
func (r createRequest) settings(base config.Config) config.Config {
	cfg := base
	if r.Scenario != "" {
		cfg.Grid.Scenario = r.Scenario
	}
	if r.Size != 0 {
		cfg.Grid.Size = r.Size
	}
	if r.Heuristic != "" {
		cfg.Search.Heuristic = r.Heuristic
	}
	if r.Weighted != nil {
		cfg.Search.Weighted = *r.Weighted
	}
	if r.Connectivity != "" {
		cfg.Search.Connectivity = r.Connectivity
	}
	if r.Mode != "" {
		cfg.Editor.Mode = r.Mode
	}
	return cfg
}

func (r createRequest) grid(cfg config.Config) (*gridastar.Grid, error) {
	if cfg.Grid.Scenario != "random" || r.Random == nil {
		return scenario.ByName(cfg.Grid.Scenario, cfg.Grid.Size)
	}
	options := scenario.DefaultRandomOptions()
	options.Clusters = r.Random.Clusters
	options.Steps = r.Random.Steps
	options.Density = r.Random.Density
	if r.Random.Seed != nil {
		options.Seed = *r.Random.Seed
	}
	return scenario.Random(cfg.Grid.Size, cfg.Grid.Size, options)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cfg := req.settings(s.config)
	options, err := cfg.SearchOptions()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := cfg.EditorMode()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grid, err := req.grid(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := &session{
		id:      uuid.New().String(),
		editor:  editor.New(grid, s.logger),
		options: append(options, gridastar.WithLogger(s.logger)),
	}
	sess.editor.SetMode(mode)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session created",
		"session", sess.id,
		"scenario", cfg.Grid.Scenario,
		"rows", grid.Rows(),
		"cols", grid.Cols())
	c.JSON(http.StatusCreated, sess.view())
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound.Error()})
	}
	return sess, ok
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusOK, sess.view())
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=none start end wall"`
}

func (s *Server) handleMode(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := editor.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.editor.SetMode(mode)
	c.JSON(http.StatusOK, sess.view())
}

type clickRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

func (s *Server) handleClick(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.click(gridastar.Coordinate{Row: *req.Row, Col: *req.Col}); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.view())
}

func (s *Server) handleReset(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.reset()
	c.JSON(http.StatusOK, sess.view())
}

func (s *Server) handleClear(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.stepper = nil
	sess.editor.Clear()
	c.JSON(http.StatusOK, sess.view())
}

type resizeRequest struct {
	Size int `json:"size" binding:"required,gte=1,lte=256"`
}

func (s *Server) handleResize(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.resize(req.Size); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.view())
}

type loadRequest struct {
	Scenario string `json:"scenario" binding:"required,oneof=normal wiki empty random"`
	Size     int    `json:"size" binding:"omitempty,gte=1,lte=256"`
}

func (s *Server) handleLoad(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size := req.Size
	if size == 0 {
		size = s.config.Grid.Size
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.load(req.Scenario, size); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.view())
}

func (s *Server) handleStep(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	snapshot, err := sess.step()
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleSolve(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result, err := sess.solve(c.Request.Context())
	if err != nil && !errors.Is(err, gridastar.ErrNoPathFound) {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, gridastar.ErrInvalidCoordinate), errors.Is(err, gridastar.ErrBlockedEndpoint),
		errors.Is(err, gridastar.ErrInvalidDimensions), errors.Is(err, scenario.ErrUnknownScenario):
		return http.StatusBadRequest
	case errors.Is(err, gridastar.ErrInvalidEndpoints):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gridastar.ErrStaleRun):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
