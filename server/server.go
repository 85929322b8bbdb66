package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	"github.com/mindboosthq/mindboost-api/mailingservices"
	"github.com/mindboosthq/mindboost-api/realtime"
	"github.com/mindboosthq/mindboost-api/services"
)

// Server holds every dependency the HTTP layer needs
type Server struct {
	Config                 *config.Config
	Mail                   *mailingservices.Mailgun
	AuthRepository         db.AuthRepository
	NotificationRepository db.NotificationRepository
	AuthService            services.AuthService
	NotificationService    services.NotificationService
	CourseService          services.CourseService
	ForumService           services.ForumService
	PaymentService         services.PaymentService
	AIService              services.AIService
	MediaService           services.MediaService
	Hub                    *realtime.Hub
	DB                     db.GormDB
}

// Start runs the HTTP server until an interrupt arrives, then drains
// open requests and closes every realtime connection
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if s.Hub != nil {
		s.Hub.Shutdown()
	}
	log.Println("Server exited")
}

// decode binds the JSON request body into v
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		log.Printf("error binding request body: %v", err)
		return err
	}
	return nil
}
