// Package openaiapi provides a client wrapper for an OpenAI-compatible
// chat-completions endpoint that turns free-form text into reader questions.
package openaiapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/config"
)

const (
	// QuestionCount is how many questions a single generation asks for.
	QuestionCount = 5

	maxCompletionTokens = 1000
	minQuestionLength   = 3

	retryCount   = 3
	retryWaitMin = 2 * time.Second
	retryWaitMax = 10 * time.Second
)

var (
	ErrEmptyText       = errors.New("text cannot be empty")
	ErrMissingAPIKey   = errors.New("openai api key is not configured")
	ErrUpstream        = errors.New("openai request failed")
	ErrUnparsableReply = errors.New("no questions recognised in model reply")
)

const systemPrompt = "You are an assistant that generates questions from text. " +
	"Always return exactly 5 questions, each on its own line. " +
	"Do not use numbering or list markers."

type QuestionGeneratorInterface interface {
	GenerateQuestions(text string) ([]string, error)
}

type OpenAIAPI struct {
	cfg    *config.OpenAIEnvConfig
	client *resty.Client
}

func NewOpenAIAPI(cfg *config.OpenAIEnvConfig) (*OpenAIAPI, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	client := resty.New().
		SetBaseURL(cfg.OpenAIBaseURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(cfg.OpenAITimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitMin).
		SetRetryMaxWaitTime(retryWaitMax)

	return &OpenAIAPI{
		cfg:    cfg,
		client: client,
	}, nil
}

// GenerateQuestions sends the text to the chat-completions endpoint and
// returns up to QuestionCount questions in the order the model produced them.
// Empty text and a missing API key fail before any request is made.
func (o *OpenAIAPI) GenerateQuestions(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if o.cfg.OpenAIAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	req := ChatCompletionRequest{
		Model: o.cfg.OpenAIModel,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(text)},
		},
		MaxCompletionTokens: maxCompletionTokens,
	}

	log.Info().Str("model", o.cfg.OpenAIModel).Int("text_length", len(text)).Msg("requesting question generation")

	var out ChatCompletionResponse
	resp, err := o.client.R().
		SetAuthToken(o.cfg.OpenAIAPIKey).
		SetBody(req).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		log.Error().Err(err).Msg("chat-completions request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("chat-completions non-2xx")
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: reply has no choices", ErrUpstream)
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		log.Error().
			Str("finish_reason", out.Choices[0].FinishReason).
			Int("completion_tokens", out.Usage.CompletionTokens).
			Msg("chat-completions reply has empty content")
		return nil, fmt.Errorf("%w: reply content is empty, finish reason %q", ErrUpstream, out.Choices[0].FinishReason)
	}

	questions := parseQuestions(content)
	if len(questions) == 0 {
		log.Error().Str("content", content).Msg("could not split model reply into questions")
		return nil, ErrUnparsableReply
	}
	if len(questions) < QuestionCount {
		log.Warn().Int("count", len(questions)).Msg("model returned fewer questions than requested")
	}

	log.Info().Int("count", len(questions)).Msg("questions generated")
	return questions, nil
}

func buildPrompt(text string) string {
	return "You are a reader. What questions came to your mind after reading this?\n\n" +
		"Text:\n" + text + "\n\n" +
		"Generate exactly 5 substantive questions related to the topic of the page. " +
		"Put each question on its own line, without numbering and without extra symbols."
}

// parseQuestions splits the model reply into individual questions. One
// question per line; leading "N." numbering and -,*,• list markers are
// stripped, lines of three characters or fewer are dropped, and at most
// QuestionCount questions are kept.
func parseQuestions(content string) []string {
	questions := make([]string, 0, QuestionCount)
	for _, line := range strings.Split(content, "\n") {
		cleaned := stripListMarker(line)
		if len(cleaned) > minQuestionLength {
			questions = append(questions, cleaned)
		}
		if len(questions) == QuestionCount {
			break
		}
	}
	return questions
}

func stripListMarker(line string) string {
	cleaned := strings.TrimSpace(line)
	if cleaned != "" && cleaned[0] >= '0' && cleaned[0] <= '9' {
		if _, rest, found := strings.Cut(cleaned, "."); found {
			cleaned = rest
		}
	}
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(cleaned), "-*•"))
}
