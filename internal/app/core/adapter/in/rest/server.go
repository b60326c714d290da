package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server 封裝 HTTP 服務
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	addr   string
	server *http.Server
}

// NewServer 建立 gin engine 並註冊 /api/v1 路由
//
// 參數:
//
//	logger: 請求 log
//	addr: 監聽位址，例如 ":8080"
//	mode: gin 模式 (debug / release / test)
//	handler: 帳務 API
func NewServer(logger *zap.Logger, addr, mode string, handler *BankHandler) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	v1 := r.Group("/api/v1")
	{
		handler.RegisterRoutes(v1)

		// 健康檢查
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
	}

	return &Server{
		engine: r,
		logger: logger,
		addr:   addr,
		server: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler 回傳 http.Handler (測試用)
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 啟動服務，Shutdown 造成的結束不視為錯誤
func (s *Server) Run() error {
	s.logger.Info("HTTP server started", zap.String("addr", s.addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 優雅停機
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// RequestLogger 以 zap 記錄每個請求，5xx 使用 Error 等級
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("HTTP Request", fields...)
			return
		}
		logger.Info("HTTP Request", fields...)
	}
}
