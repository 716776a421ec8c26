package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mykushyn/prismiq/internal/api"
	"github.com/mykushyn/prismiq/internal/config"
	"github.com/mykushyn/prismiq/internal/conversation"
	"github.com/mykushyn/prismiq/internal/docs"
	"github.com/mykushyn/prismiq/internal/llm"
	"github.com/mykushyn/prismiq/internal/prompt"
	"github.com/mykushyn/prismiq/internal/service"
	"github.com/mykushyn/prismiq/internal/speech"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	library, err := docs.Load(cfg.DocsPath, cfg.ChunkSize)
	if err != nil {
		log.Fatalf("Failed to load reference documents: %v", err)
	}
	log.Printf("Loaded %d reference documents from %s", len(library.Documents()), cfg.DocsPath)

	// Dependencies are created in the order the turn pipeline uses them.
	assembler := docs.NewAssembler(library, cfg.HintTopK, cfg.BroadTopK)
	store := conversation.NewMemoryStore()
	completions := llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, llm.Options{
		Model:            cfg.CompletionModel,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
		PresencePenalty:  cfg.PresencePenalty,
		FrequencyPenalty: cfg.FrequencyPenalty,
	})
	stream := llm.NewRealtimeProvider(cfg.RealtimeURL, cfg.RealtimeModel, cfg.OpenAIAPIKey)
	synthesizer := speech.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, speech.Options{
		TTSModel: cfg.TTSModel,
		Voice:    cfg.TTSVoice,
		Format:   cfg.TTSFormat,
		STTModel: cfg.STTModel,
	})
	budget := prompt.NewBudget(cfg.CompletionModel, cfg.TokenBudget)

	tutor := service.NewTutorService(service.TutorServiceDeps{
		Assembler:   assembler,
		Store:       store,
		Completions: completions,
		Stream:      stream,
		Synthesizer: synthesizer,
		Transcriber: synthesizer,
		Budget:      budget,
	}, cfg.HistoryLimit, cfg.SystemPrompt)

	hub := api.NewHub(tutor)
	chatHandler := api.NewChatHandler(tutor)
	router := api.NewRouter(hub, chatHandler)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.AppPort),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on port %d...", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
