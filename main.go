package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pawtalk/pkg/backend"
	"pawtalk/pkg/bot"
	"pawtalk/pkg/config"
	"pawtalk/pkg/history"
	"pawtalk/pkg/httpapi"
	"pawtalk/pkg/persona"
	"pawtalk/pkg/surreal"
	"pawtalk/pkg/whisper"
	"pawtalk/pkg/zhconv"

	"github.com/joho/godotenv"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("Missing required environment variable: REDIS_URL")
	}

	qwenKey := os.Getenv("QWEN_API_KEY")
	if cfg.AI.Mode == config.ModeAPI && qwenKey == "" {
		log.Fatal("Missing required environment variable: QWEN_API_KEY (needed in api mode)")
	}

	// SurrealDB holds the pet profiles maintained by the admin surface.
	surrealHost := os.Getenv("SURREAL_DB_HOST")
	surrealUser := os.Getenv("SURREAL_DB_USER")
	surrealPass := os.Getenv("SURREAL_DB_PASS")
	surrealNS := os.Getenv("SURREAL_DB_NAMESPACE")
	surrealDB := os.Getenv("SURREAL_DB_DATABASE")

	if surrealHost == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_HOST")
	}
	if surrealUser == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_USER")
	}
	if surrealPass == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_PASS")
	}
	if surrealNS == "" {
		surrealNS = "pawtalk"
	}
	if surrealDB == "" {
		surrealDB = "pets"
	}

	// Add protocol if missing
	if !strings.HasPrefix(surrealHost, "ws://") && !strings.HasPrefix(surrealHost, "wss://") {
		surrealHost = "wss://" + surrealHost + "/rpc"
	}

	log.Printf("Connecting to SurrealDB at %s (NS: %s, DB: %s)", surrealHost, surrealNS, surrealDB)
	surrealClient, err := surreal.NewClient(surrealHost, surrealUser, surrealPass, surrealNS, surrealDB)
	if err != nil {
		log.Fatalf("Failed to connect to SurrealDB: %v", err)
	}
	defer surrealClient.Close()

	repo := persona.NewSurrealRepository(surrealClient)

	store, err := history.NewRedisStore(redisURL, "pawtalk", cfg.History.Retention)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	chatter, err := backend.New(backend.Config{
		Mode:        cfg.AI.Mode,
		OllamaURL:   cfg.AI.OllamaURL,
		OllamaModel: cfg.AI.OllamaModel,
		APIBaseURL:  cfg.AI.APIBaseURL,
		APIKey:      qwenKey,
		APIModel:    cfg.AI.APIModel,
		Temperature: cfg.AI.Temperature,
		TopP:        cfg.AI.TopP,
		Timeout:     time.Duration(cfg.Timeouts.BackendSeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI backend: %v", err)
	}

	normalizer, err := zhconv.NewNormalizer()
	if err != nil {
		log.Fatalf("Failed to initialize script normalizer: %v", err)
	}

	handler := bot.NewHandler(repo, store, chatter, normalizer, cfg.History.MaxTurns)

	// The whisper feature rides on the companion web service; without a
	// base URL the command degrades gracefully.
	baseURL := os.Getenv("BASE_URL")
	if baseURL != "" {
		whisperTimeout := time.Duration(cfg.Timeouts.WhisperSeconds) * time.Second
		handler.SetWhisperFetcher(whisper.NewClient(baseURL, whisperTimeout))
	}

	activeModel := cfg.AI.OllamaModel
	if cfg.AI.Mode == config.ModeAPI {
		activeModel = cfg.AI.APIModel
	}

	// Startup environment report
	log.Printf("AI mode: %s (%s)", cfg.AI.Mode, chatter.Describe())
	log.Printf("QWEN_API_KEY configured: %v", qwenKey != "")
	log.Printf("BASE_URL configured: %v", baseURL != "")
	log.Printf("History window: %d turns, retention %d entries", cfg.History.MaxTurns, cfg.History.Retention)

	api := httpapi.NewServer(handler, cfg.AI.Mode, activeModel)
	api.AddCheck("redis", store.Ping)
	api.AddCheck("surrealdb", surrealClient.Ping)
	if ollama, ok := chatter.(*backend.OllamaClient); ok {
		api.AddCheck("ollama", ollama.Ping)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- api.ListenAndServe(":" + port)
	}()

	log.Println("Pawtalk is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	select {
	case err := <-errCh:
		log.Fatalf("HTTP server stopped: %v", err)
	case <-sc:
		log.Println("Shutting down")
	}
}
