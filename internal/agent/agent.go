// Package agent wires page extraction and question generation into the
// url-to-questions pipeline.
package agent

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/openaiapi"
	"github.com/EdomGit/User-questions/internal/webpage"
)

type QuestionAgentInterface interface {
	GenerateFromText(text string) ([]string, error)
	GenerateFromURL(rawURL string) ([]string, error)
}

type QuestionAgent struct {
	extractor webpage.PageExtractorInterface
	generator openaiapi.QuestionGeneratorInterface
}

func NewQuestionAgent(extractor webpage.PageExtractorInterface, generator openaiapi.QuestionGeneratorInterface) *QuestionAgent {
	return &QuestionAgent{
		extractor: extractor,
		generator: generator,
	}
}

// GenerateFromText generates questions for caller-provided text, truncating
// it to the model limit first.
func (a *QuestionAgent) GenerateFromText(text string) ([]string, error) {
	if len(text) > webpage.MaxPromptTextLength {
		text = webpage.Truncate(text, webpage.MaxPromptTextLength)
		log.Info().Int("length", len(text)).Msg("input text truncated for the model")
	}
	return a.generator.GenerateQuestions(text)
}

// GenerateFromURL fetches the page, extracts its readable text and generates
// questions from it. Pages with fewer than webpage.MinTextLength characters
// of text are rejected before any model call.
func (a *QuestionAgent) GenerateFromURL(rawURL string) ([]string, error) {
	text, err := a.extractor.ExtractText(rawURL)
	if err != nil {
		return nil, err
	}

	if got := len(strings.TrimSpace(text)); got < webpage.MinTextLength {
		log.Error().Int("length", got).Str("url", rawURL).Msg("extracted text too short")
		return nil, fmt.Errorf("%w: got %d characters, need at least %d",
			webpage.ErrTextTooShort, got, webpage.MinTextLength)
	}

	if len(text) > webpage.MaxPromptTextLength {
		text = webpage.Truncate(text, webpage.MaxPromptTextLength)
		log.Info().Int("length", len(text)).Msg("extracted text truncated for the model")
	}

	questions, err := a.generator.GenerateQuestions(text)
	if err != nil {
		return nil, err
	}

	log.Info().Int("count", len(questions)).Str("url", rawURL).Msg("questions generated for page")
	return questions, nil
}
