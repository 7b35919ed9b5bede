// Package questionapi exposes question generation over HTTP.
package questionapi

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/agent"
	"github.com/EdomGit/User-questions/internal/config"
	"github.com/EdomGit/User-questions/internal/openaiapi"
	"github.com/EdomGit/User-questions/internal/webpage"
)

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.ServerEnvConfig, questionAgent agent.QuestionAgentInterface) *Server {
	serverConfig := &ServerConfig{
		Host:      DefaultServerHost,
		Port:      DefaultServerPort,
		BodyLimit: DefaultBodyLimit,
	}
	if cfg != nil {
		if cfg.Host != "" {
			serverConfig.Host = cfg.Host
		}
		if cfg.Port != 0 {
			serverConfig.Port = cfg.Port
		}
		if cfg.BodySizeLimit != 0 {
			serverConfig.BodyLimit = cfg.BodySizeLimit
		}
	}

	log.Info().
		Any("serverConfig", serverConfig).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		Prefork:      false,
		ErrorHandler: fiberErrHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    serverConfig.BodyLimit,
	})

	app.Use(recover.New()) // add panic recovery
	app.Use(ZstdMiddleware([]string{"/", "/health"}))

	server := &Server{
		App:    app,
		config: serverConfig,
	}

	app.Get("/", handleRoot)
	app.Get("/health", handleHealth)
	app.Post("/api/generate-questions", handleGenerateFromText(questionAgent))
	app.Post("/api/generate-questions-from-url", handleGenerateFromURL(questionAgent))

	return server
}

func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := s.App.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

func handleRoot(c *fiber.Ctx) error {
	return c.JSON(ServiceInfoResponse{
		Message: "Question Generator API",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"POST /api/generate-questions":          "generate questions from raw text",
			"POST /api/generate-questions-from-url": "generate questions from a web page",
			"GET /health":                           "liveness check",
		},
	})
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func handleGenerateFromText(questionAgent agent.QuestionAgentInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GenerateFromTextRequest
		if err := c.BodyParser(&req); err != nil {
			log.Error().Err(err).Msg("Failed to parse request body")
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		questions, err := questionAgent.GenerateFromText(req.Text)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(QuestionsResponse{Questions: questions})
	}
}

func handleGenerateFromURL(questionAgent agent.QuestionAgentInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GenerateFromURLRequest
		if err := c.BodyParser(&req); err != nil {
			log.Error().Err(err).Msg("Failed to parse request body")
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		log.Info().Str("url", req.URL).Msg("generate questions request received")

		questions, err := questionAgent.GenerateFromURL(req.URL)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(QuestionsResponse{Questions: questions})
	}
}

// statusError maps domain error kinds to HTTP status codes.
func statusError(err error) *fiber.Error {
	switch {
	case errors.Is(err, openaiapi.ErrEmptyText),
		errors.Is(err, webpage.ErrInvalidURL),
		errors.Is(err, webpage.ErrTextTooShort):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, openaiapi.ErrMissingAPIKey):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, webpage.ErrFetchTimeout):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	case errors.Is(err, webpage.ErrFetch),
		errors.Is(err, webpage.ErrEmptyPage),
		errors.Is(err, openaiapi.ErrUpstream),
		errors.Is(err, openaiapi.ErrUnparsableReply):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
