// Command chat is an interactive terminal client for chatting with an
// indexed document.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
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
	"github.com/ameympatil/AI-Chatbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml, then ~/.config/chatbot/config.yaml)")
	indexName := flag.String("index", "", "name of the index to chat against")
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
		log.Fatalf("llm client: %v", err)
	}

	store, err := index.NewFileStore(cfg.Index.DataDir)
	if err != nil {
		log.Fatalf("open index dir: %v", err)
	}
	manager := index.NewManager(client, store)

	if *indexName == "" {
		names, err := manager.ListAvailable()
		if err != nil || len(names) == 0 {
			log.Fatal("no indexes found, upload a document first")
		}
		fmt.Println("Available indexes:")
		fmt.Println("  " + strings.Join(names, "\n  "))
		log.Fatal("pick one with --index")
	}

	conv, err := conversation.NewStore(cfg.Conversation.Database)
	if err != nil {
		log.Fatalf("open conversation store: %v", err)
	}
	defer conv.Close()

	pipeline := service.NewPipeline(
		chunker.NewTokenChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
		manager,
		conv,
		rewrite.New(client),
		answer.New(client, cfg.Answer.ContextChars),
		summarizer.NewFrequencySummarizer(),
		service.Options{
			TopK:         cfg.Retrieval.TopK,
			HistoryTurns: cfg.Rewrite.HistoryTurns,
		},
	)

	m := tui.New(pipeline, uuid.NewString(), *indexName)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("run tui: %v", err)
	}
}
