package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// APIServer wraps the fiber engine with its listen address
type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewAPIServer creates the server listening on listenAddress
func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:   "ukotvy-website",
			BodyLimit: 8 * 1024 * 1024,
		}),
		listenAddress: listenAddress,
	}
}

// GetEngine exposes the underlying fiber app for route setup
func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run starts serving
func (s *APIServer) Run() error {
	log.Printf("Starting API server, listening on %s", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}
