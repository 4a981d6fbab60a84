package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewFiber builds the fiber app shared by the server and handler tests.
func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{
		AppName: "institutions-api",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				if e.Code == fiber.StatusNotFound {
					return response.NotFound(c, "")
				}
				return response.Error(c, e.Code, e.Message, response.CodeHTTP)
			}
			return handlers.RespondError(c, err, "")
		},
	})
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app:           NewFiber(),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Info("Starting API Server")
	log.Infof("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
