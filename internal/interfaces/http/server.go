// Package http is the HTTP adapter: a thin gin layer translating
// requests into service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/service"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer wires the handlers onto a gin router.
func NewServer(
	config ServerConfig,
	expenses *service.ExpenseService,
	invoices *service.InvoiceService,
	charges *service.ChargeService,
	reports *service.ReportService,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{config: config, router: router, logger: logger}

	router.Use(gin.Recovery())
	router.Use(s.loggingMiddleware())
	router.Use(corsMiddleware())

	h := NewHandlers(expenses, invoices, charges, reports, logger)

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/expenses", h.CreateExpense)
		api.GET("/expenses", h.ListExpenses)
		api.GET("/expenses/overdue", h.ListOverdueExpenses)
		api.POST("/expenses/bulk-delete", h.BulkDeleteExpenses)
		api.GET("/expenses/:id", h.GetExpense)
		api.PUT("/expenses/:id", h.UpdateExpense)
		api.DELETE("/expenses/:id", h.DeleteExpense)
		api.POST("/expenses/:id/status", h.ChangeExpenseStatus)
		api.POST("/expenses/:id/settle", h.SettleExpense)

		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices", h.ListInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.DELETE("/invoices/:id", h.DeleteInvoice)
		api.POST("/invoices/:id/received", h.MarkInvoiceReceived)

		api.POST("/service-charges", h.CreateServiceCharge)
		api.GET("/service-charges", h.ListServiceCharges)
		api.PUT("/service-charges/:id", h.UpdateServiceCharge)
		api.DELETE("/service-charges/:id", h.DeleteServiceCharge)

		api.POST("/reports/compute", h.ComputeReport)
		api.POST("/reports", h.SaveReport)
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
		api.DELETE("/reports/:id", h.DeleteReport)
		api.GET("/reports/:id/export", h.ExportReport)
	}

	return s
}

// Start runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
