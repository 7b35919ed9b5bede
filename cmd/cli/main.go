package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/agent"
	"github.com/EdomGit/User-questions/internal/config"
	"github.com/EdomGit/User-questions/internal/openaiapi"
	"github.com/EdomGit/User-questions/internal/utils/logger"
	"github.com/EdomGit/User-questions/internal/webpage"
)

const outputFile = "questions.txt"

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <url>\n", os.Args[0])
		os.Exit(2)
	}
	rawURL := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	generator, err := openaiapi.NewOpenAIAPI(&cfg.OpenAIEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init openai client")
	}

	extractor, err := webpage.NewPageExtractor(&cfg.FetcherEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init page extractor")
	}

	questionAgent := agent.NewQuestionAgent(extractor, generator)

	questions, err := questionAgent.GenerateFromURL(rawURL)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("question generation failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated questions:")
	fmt.Println("==================================================")
	for i, question := range questions {
		fmt.Printf("%d. %s\n", i+1, question)
	}
	fmt.Println("==================================================")

	if err := writeQuestions(outputFile, questions); err != nil {
		log.Error().Err(err).Str("file", outputFile).Msg("failed to save questions")
		fmt.Fprintf(os.Stderr, "error saving questions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nQuestions saved to %s\n", outputFile)
}

func writeQuestions(path string, questions []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, question := range questions {
		if _, err := fmt.Fprintf(f, "%d. %s\n", i+1, question); err != nil {
			return err
		}
	}
	return nil
}
