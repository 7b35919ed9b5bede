package questionapi

import "github.com/gofiber/fiber/v2"

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8001
	DefaultBodyLimit  = 1 * 1024 * 1024 // 1MB
)

// Server represents the question generation HTTP server
type Server struct {
	App    *fiber.App
	config *ServerConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	BodyLimit int
}

// GenerateFromTextRequest is the payload for text-based generation.
type GenerateFromTextRequest struct {
	Text string `json:"text"`
}

// GenerateFromURLRequest is the payload for url-based generation.
type GenerateFromURLRequest struct {
	URL string `json:"url"`
}

// QuestionsResponse carries the generated questions in model order.
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// ErrorResponse is the standardized error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServiceInfoResponse describes the service on the root route.
type ServiceInfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
