// Package webpage fetches web pages and extracts their readable text.
package webpage

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/config"
)

const (
	// MaxTextLength caps the extracted page text.
	MaxTextLength = 10000
	// MaxPromptTextLength caps the text handed to the model. Slightly below
	// MaxTextLength to leave headroom for the prompt itself.
	MaxPromptTextLength = 8000
	// MinTextLength is the least amount of extracted text worth generating
	// questions from.
	MinTextLength = 50

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/91.0.4472.124 Safari/537.36"
)

var (
	ErrInvalidURL   = errors.New("invalid url")
	ErrFetch        = errors.New("page fetch failed")
	ErrFetchTimeout = errors.New("page fetch timed out")
	ErrEmptyPage    = errors.New("no text could be extracted from the page")
	ErrTextTooShort = errors.New("not enough text on the page to generate questions")
)

type PageExtractorInterface interface {
	ExtractText(rawURL string) (string, error)
}

type PageExtractor struct {
	cfg    *config.FetcherEnvConfig
	client *retryablehttp.Client
}

func NewPageExtractor(cfg *config.FetcherEnvConfig) (*PageExtractor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.FetchRetryMax
	client.HTTPClient.Timeout = cfg.FetchTimeout
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil

	return &PageExtractor{
		cfg:    cfg,
		client: client,
	}, nil
}

// ValidateURL checks that the URL parses and carries an http(s) scheme and a
// host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return nil
}

// ExtractText fetches the page and returns its cleaned readable text, capped
// at MaxTextLength characters.
func (p *PageExtractor) ExtractText(rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		log.Error().Str("url", rawURL).Msg("invalid url")
		return "", err
	}

	log.Info().Str("url", rawURL).Msg("fetching page")
	html, err := p.fetchHTML(rawURL)
	if err != nil {
		return "", err
	}
	log.Info().Int("size", len(html)).Msg("page fetched")

	text, err := ExtractReadableText(html)
	if err != nil {
		return "", err
	}

	log.Info().Int("length", len(text)).Msg("text extracted")
	return text, nil
}

func (p *PageExtractor) fetchHTML(rawURL string) (string, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			log.Error().Err(err).Str("url", rawURL).Msg("page fetch timed out")
			return "", fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		log.Error().Err(err).Str("url", rawURL).Msg("page fetch failed")
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error().Int("status", resp.StatusCode).Str("url", rawURL).Msg("page fetch non-2xx")
		return "", fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return string(body), nil
}
