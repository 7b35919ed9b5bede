package questionapi

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// ZstdMiddleware transparently decompresses zstd-encoded request bodies so
// clients can ship large text payloads compressed.
func ZstdMiddleware(whitelistedRoutes []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// Check if route is whitelisted
		for _, route := range whitelistedRoutes {
			if path == route {
				return c.Next()
			}
		}

		contentEncoding := c.Get("content-encoding")
		if strings.ToLower(contentEncoding) == "zstd" {
			body := c.Body()
			if len(body) > 0 {
				decoder, err := zstd.NewReader(bytes.NewReader(body))
				if err != nil {
					log.Err(err).Msg("Failed to create zstd decoder")
					return c.Status(fiber.StatusBadRequest).JSON(
						ErrorResponse{Error: fmt.Sprintf("Failed to decompress zstd data: %s", err.Error())})
				}
				defer decoder.Close()

				decompressed, err := io.ReadAll(decoder)
				if err != nil {
					log.Err(err).Msg("Failed to decompress request")
					return c.Status(fiber.StatusBadRequest).JSON(
						ErrorResponse{Error: fmt.Sprintf("Failed to decompress zstd data: %s", err.Error())})
				}

				c.Request().SetBody(decompressed)
				c.Request().Header.Del("content-encoding")
				log.Debug().Int("size", len(decompressed)).Msg("Request body decompressed")
			}
		}

		return c.Next()
	}
}
