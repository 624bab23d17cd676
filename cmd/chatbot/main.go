// Command chatbot serves the document question-answering API over HTTP.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/ameympatil/AI-Chatbot/internal/answer"
	"github.com/ameympatil/AI-Chatbot/internal/chunker"
	"github.com/ameympatil/AI-Chatbot/internal/config"
	"github.com/ameympatil/AI-Chatbot/internal/conversation"
	"github.com/ameympatil/AI-Chatbot/internal/index"
	"github.com/ameympatil/AI-Chatbot/internal/llm"
	"github.com/ameympatil/AI-Chatbot/internal/rewrite"
	"github.com/ameympatil/AI-Chatbot/internal/service"
	"github.com/ameympatil/AI-Chatbot/internal/summarizer"
	httpapi "github.com/ameympatil/AI-Chatbot/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml, then ~/.config/chatbot/config.yaml)")
	flag.Parse()

	var (
		cfg *config.AppConfig
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pipeline, closeStore, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("assemble pipeline: %v", err)
	}
	defer closeStore()

	e := httpapi.NewServer(httpapi.NewHandler(pipeline))
	log.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}

func buildPipeline(cfg *config.AppConfig) (*service.Pipeline, func(), error) {
	client, err := llm.NewClient(llm.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKeyEnv:      cfg.LLM.APIKeyEnv,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Timeout:        cfg.LLM.Timeout(),
		MaxRetries:     cfg.LLM.MaxRetries,
		BatchSize:      cfg.LLM.BatchSize,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := index.NewFileStore(cfg.Index.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open index dir: %w", err)
	}

	conv, err := conversation.NewStore(cfg.Conversation.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open conversation store: %w", err)
	}

	pipeline := service.NewPipeline(
		chunker.NewTokenChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
		index.NewManager(client, store),
		conv,
		rewrite.New(client),
		answer.New(client, cfg.Answer.ContextChars),
		summarizer.NewFrequencySummarizer(),
		service.Options{
			TopK:         cfg.Retrieval.TopK,
			HistoryTurns: cfg.Rewrite.HistoryTurns,
		},
	)
	return pipeline, func() { _ = conv.Close() }, nil
}
