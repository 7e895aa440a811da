package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"healthchain/internal/auth"
	"healthchain/internal/config"
	"healthchain/internal/handler"
	"healthchain/internal/middleware"
	"healthchain/internal/repository/postgres"
	"healthchain/internal/service/chat"
	"healthchain/internal/service/conversation"
	"healthchain/internal/service/embedding"
	"healthchain/internal/service/extract"
	"healthchain/internal/service/finalize"
	"healthchain/internal/service/insights"
	"healthchain/internal/service/llm/agent"
	anthropicProvider "healthchain/internal/service/llm/providers/anthropic"
	"healthchain/internal/service/llm/tools"
	"healthchain/internal/service/pharmacy"
	"healthchain/internal/service/rag"
	"healthchain/internal/service/voice"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verification is optional: without Supabase config all requests
	// stay anonymous and channel-level auth applies.
	var jwtVerifier auth.JWTVerifier
	if cfg.SupabaseJWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		jwtVerifier = verifier
	} else {
		logger.Warn("SUPABASE_URL not set, bearer tokens will be ignored")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Repositories
	repoConfig := postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
	}
	patientRepo := postgres.NewPatientRepository(repoConfig)
	medicineRepo := postgres.NewMedicineRepository(repoConfig)
	orderRepo := postgres.NewOrderRepository(repoConfig)
	refillRepo := postgres.NewRefillAlertRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	chunkRepo := postgres.NewDocumentChunkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// LLM provider
	provider, err := anthropicProvider.NewProvider(cfg.AnthropicAPIKey)
	if err != nil {
		log.Fatalf("Failed to setup LLM provider: %v", err)
	}

	// Voice synthesis is optional
	var synthesizer voice.Synthesizer
	if cfg.ElevenLabsAPIKey != "" {
		synthesizer = voice.NewElevenLabsClient(cfg.ElevenLabsAPIKey)
	} else {
		logger.Warn("ELEVENLABS_API_KEY not set, voice synthesis disabled")
	}

	finalizer, err := finalize.NewFinalizer(synthesizer, logger)
	if err != nil {
		log.Fatalf("Failed to load fallback registry: %v", err)
	}

	// Services
	embedder := embedding.NewGeminiClient(cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	ragService := rag.NewService(chunkRepo, embedder, logger)
	history := conversation.NewStore()

	pharmacyService := pharmacy.NewService(
		patientRepo, medicineRepo, orderRepo, refillRepo, notificationRepo,
		txManager, logger,
	)

	registry := tools.BuildPharmacyRegistry(pharmacyService)
	controller := agent.NewController(provider, registry, cfg.DefaultModel, logger)
	agentChatService := agent.NewChatService(controller, pharmacyService, history, finalizer, logger)

	chatService := chat.NewService(provider, ragService, history, finalizer, cfg.DefaultModel, logger)
	insightsService := insights.NewService(chunkRepo, provider, cfg.DefaultModel, logger)
	extractor := extract.NewHTTPExtractor()

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, logger)
	pharmacyHandler := handler.NewPharmacyHandler(agentChatService, pharmacyService, logger)
	insightsHandler := handler.NewInsightsHandler(insightsService, logger)
	extractHandler := handler.NewExtractHandler(extractor, ragService, logger)
	voiceHandler := handler.NewVoiceHandler(synthesizer, logger)
	healthHandler := handler.NewHealthHandler(pool)

	logger.Info("services initialized", "tools", len(registry.Definitions()))

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST /chat", chatHandler.Chat)

	mux.HandleFunc("POST /pharmacy/chat", pharmacyHandler.Chat)
	mux.HandleFunc("GET /pharmacy/refill-alerts/{patient_id}", pharmacyHandler.RefillAlerts)

	mux.HandleFunc("POST /synthesize_voice", voiceHandler.Synthesize)
	mux.HandleFunc("GET /analyze_health/{patient_id}", insightsHandler.AnalyzeHealth)
	mux.HandleFunc("POST /extract_record", extractHandler.ExtractRecord)

	// Build middleware chain (applied in reverse order)
	var root http.Handler = mux
	if jwtVerifier != nil {
		root = middleware.Auth(jwtVerifier, logger)(root)
	}
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
