package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/services"
)

type Server struct {
	Config            *config.Config
	AuthRepository    db.AuthRepository
	AuthService       services.AuthService
	MessageRepository db.MessageRepository
	MessageService    services.MessageService
	Hub               *Hub
	DB                *db.GormDB
}

// Start runs the HTTP server and drains in-flight requests on SIGINT/SIGTERM.
func (s *Server) Start() {
	if s.Hub == nil {
		s.Hub = NewHub()
	}

	r := s.setupRouter()
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}
	log.Println("server exited")
}
