// Package server provides the HTTP adapter exposing the extraction,
// ledger and business-rule operations. It is a thin translation layer:
// handlers bind requests, call the services and map structured refusals onto
// status codes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds HTTP server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     Config
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// New creates a new HTTP server with the given handlers
func New(config Config, handlers *Handlers, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: handlers,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware logs every request with latency and status
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		// Extraction (file → draft, nothing persisted)
		api.POST("/extract/expense", s.handlers.ExtractExpense)
		api.POST("/extract/budget", s.handlers.ExtractBudget)

		// Expense ledger
		api.GET("/expenses", s.handlers.ListExpenses)
		api.GET("/expenses/:id", s.handlers.GetExpense)
		api.POST("/expenses", s.handlers.CreateExpense)
		api.POST("/expenses/import", s.handlers.ImportExpenses)
		api.PUT("/expenses/:id", s.handlers.UpdateExpense)
		api.DELETE("/expenses/:id", s.handlers.DeleteExpense)

		// Budgets
		api.GET("/budgets", s.handlers.ListBudgets)
		api.GET("/budgets/:year", s.handlers.GetBudget)
		api.POST("/budgets/import", s.handlers.ImportBudget)

		// Business rules (caller-owned records, rules applied server-side)
		api.POST("/approvals/:id/transition", s.handlers.TransitionApproval)
		api.POST("/equipment/:id/return/initiate", s.handlers.InitiateReturn)
		api.POST("/equipment/:id/return/inspect", s.handlers.InspectReturn)
		api.DELETE("/equipment/:id", s.handlers.DeleteEquipment)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
