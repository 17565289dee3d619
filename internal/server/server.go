// Package server exposes the backend over HTTP: the websocket chat
// endpoint, the ingestion endpoint and a status probe.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"medichat/internal/gateway"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server hosts the echo application over a gateway.
type Server struct {
	gw   *gateway.Gateway
	addr string
	echo *echo.Echo
}

func New(gw *gateway.Gateway) *Server {
	s := &Server{
		gw:   gw,
		addr: gw.Config().Addr,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/ws/chat", s.handleChat)
	e.POST("/ingest", s.handleIngest)
	e.GET("/api/status", s.handleStatus)

	s.echo = e
	return s
}

// Echo exposes the handler for endpoint tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		log.Println("[Server] shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutdownCtx)
	}()

	log.Printf("[Server] listening on %s", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "online",
		"provider": s.gw.Config().Provider,
		"router":   s.gw.Config().Router,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
