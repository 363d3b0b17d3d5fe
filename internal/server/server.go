package server

import (
	"fmt"
	"net/http"
	"time"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/events"
	"brainiax-backend/internal/mailer"
)

// Server bundles the shared dependencies the route handlers need
type Server struct {
	Cfg    *config.Config
	DB     *database.Service
	Feed   *events.Feed
	Mailer *mailer.Mailer
}

// New construct new Server instance
func New(cfg *config.Config, db *database.Service, feed *events.Feed, m *mailer.Mailer) *Server {
	return &Server{Cfg: cfg, DB: db, Feed: feed, Mailer: m}
}

// HTTPServer wraps the router in an http.Server with sane timeouts.
// WriteTimeout stays zero because the event stream endpoint holds its
// response open indefinitely.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf(":%d", s.Cfg.Port),
		Handler:     s.RegisterRoutes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
	}
}
