package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/avinash937288-ai/verdi-app/pkg/bank"
	"github.com/avinash937288-ai/verdi-app/pkg/config"
	"github.com/avinash937288-ai/verdi-app/pkg/handlers"
	"github.com/avinash937288-ai/verdi-app/pkg/livefeed"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
	"github.com/avinash937288-ai/verdi-app/pkg/redis"
	"github.com/avinash937288-ai/verdi-app/pkg/samples"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
	"github.com/avinash937288-ai/verdi-app/pkg/supply"
	"github.com/avinash937288-ai/verdi-app/pkg/websocket"
)

func main() {
	log.Println("🚀 Starting Vardi exam-prep server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	store, health, closeStore := initStore(ctx, cfg)
	defer closeStore()

	contentProvider := initProvider(ctx, cfg)
	var feed supply.LiveFeed
	if cfg.RapidAPIKey != "" {
		feed = livefeed.NewClient(livefeed.Config{
			BaseURL: cfg.LiveFeedBaseURL,
			APIKey:  cfg.RapidAPIKey,
			Host:    cfg.RapidAPIHost,
			Timeout: cfg.FeedTimeout,
		}, nil)
	} else {
		log.Println("💡 RAPIDAPI_KEY not set, live current-affairs feed disabled")
	}

	log.Println("⚙️  Initializing services...")
	userBank := bank.New(store)
	engine, err := supply.NewEngine(supply.Config{
		UserBank:    userBank,
		LocalBank:   samples.Questions(),
		Feed:        feed,
		Provider:    contentProvider,
		CallTimeout: cfg.ProviderTimeout,
	})
	if err != nil {
		log.Fatalf("Error creating supply engine: %v", err)
	}

	questionService := services.NewQuestionService(engine, userBank, contentProvider, health)
	sessionService := services.NewSessionService(questionService, cfg.SessionTTL)
	adminState := services.NewAdminStateService(store, questionService)

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	router := handlers.NewRouter(
		handlers.NewQuestionHandler(questionService),
		handlers.NewSessionHandler(sessionService),
		handlers.NewAdminHandler(questionService, adminState, hub),
	)

	server := &fasthttp.Server{
		Handler:            router.Handle,
		Name:               "Vardi Server",
		MaxRequestBodySize: 16 << 20,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("🛑 Shutting down...")
		if err := server.ShutdownWithContext(context.Background()); err != nil {
			log.Printf("⚠️ Error during shutdown: %v", err)
		}
	}()

	log.Printf("🎮 Vardi server listening on :%s", cfg.Port)
	log.Printf("🔧 API Health: http://localhost:%s/api/health", cfg.Port)
	if err := server.ListenAndServe(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

// initStore picks the bank backend. Redis failures fall back to memory so the
// app stays usable with only the bundled questions.
func initStore(ctx context.Context, cfg *config.Config) (bank.Store, services.HealthChecker, func()) {
	if cfg.BankBackend == config.BackendMemory {
		log.Println("🧠 Using in-memory question bank")
		return bank.NewMemoryStore(), nil, func() {}
	}

	log.Printf("🔌 Connecting to Redis at %s...", cfg.RedisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := redis.NewRedisClient(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, falling back to in-memory bank: %v", err)
		return bank.NewMemoryStore(), nil, func() {}
	}
	return client, client, func() {
		if err := client.Close(); err != nil {
			log.Printf("⚠️ Error closing Redis: %v", err)
		}
	}
}

func initProvider(ctx context.Context, cfg *config.Config) provider.ContentProvider {
	p, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.ProviderTimeout,
	})
	if errors.Is(err, provider.ErrProviderUnavailable) {
		log.Println("💡 GEMINI_API_KEY not set, serving bundled and imported questions only")
		return provider.Disabled{}
	}
	if err != nil {
		log.Printf("⚠️ Error creating content provider: %v", err)
		return provider.Disabled{}
	}
	model := cfg.GeminiModel
	if model == "" {
		model = provider.DefaultModel
	}
	log.Printf("🤖 Content provider ready (%s)", model)
	return p
}
