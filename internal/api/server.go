// Package api exposes swap and position quotes over HTTP.
package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradeRouter/internal/model"
)

// SnapshotHolder hands out the latest market snapshot to request handlers
// while a background refresher swaps new ones in.
type SnapshotHolder struct {
	current atomic.Pointer[model.Snapshot]
}

// NewSnapshotHolder seeds the holder with an initial snapshot.
func NewSnapshotHolder(snap *model.Snapshot) *SnapshotHolder {
	h := &SnapshotHolder{}
	h.current.Store(snap)
	return h
}

// Get returns the latest snapshot.
func (h *SnapshotHolder) Get() *model.Snapshot {
	return h.current.Load()
}

// Set replaces the snapshot visible to new requests.
func (h *SnapshotHolder) Set(snap *model.Snapshot) {
	h.current.Store(snap)
}

// Server is the HTTP quote server.
type Server struct {
	holder  *SnapshotHolder
	chainID uint64
	logger  *zap.Logger
	srv     *http.Server
}

// NewServer builds the server and its routes.
func NewServer(listen string, holder *SnapshotHolder, chainID uint64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		holder:  holder,
		chainID: chainID,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/markets", s.handleMarkets)
		v1.POST("/quote/swap", s.handleSwapQuote)
		v1.POST("/quote/position", s.handlePositionQuote)
	}

	s.srv = &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
