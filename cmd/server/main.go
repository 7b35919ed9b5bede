package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/EdomGit/User-questions/internal/agent"
	"github.com/EdomGit/User-questions/internal/config"
	"github.com/EdomGit/User-questions/internal/openaiapi"
	"github.com/EdomGit/User-questions/internal/questionapi"
	"github.com/EdomGit/User-questions/internal/utils/logger"
	"github.com/EdomGit/User-questions/internal/webpage"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting question generator server...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

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
	server := questionapi.NewServer(&cfg.ServerEnvConfig, questionAgent)

	// setup signal handling for graceful shutdown before starting the server
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping server")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	server.Start()
	log.Info().Msg("server stopped")
}
