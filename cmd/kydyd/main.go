package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/assetstore"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/handlers"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/httpserver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/lesson"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/metrics"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/resolver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/session"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/starvector"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/pkg/logging/logging"
)

type Config struct {
	Port      string
	DataDir   string
	AssetsDir string

	IndexBackend string // "file" or "redis"
	RedisAddr    string

	GeneratorVersion string

	StarVectorURL   string
	StarVectorToken string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
}

func LoadConfig() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		DataDir:          getenv("DATA_DIR", "data"),
		AssetsDir:        getenv("ASSETS_DIR", "assets"),
		IndexBackend:     getenv("INDEX_BACKEND", "file"),
		RedisAddr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
		GeneratorVersion: getenv("GENERATOR_VERSION", "v1"),
		StarVectorURL:    getenv("STARVECTOR_URL", "https://api-inference.huggingface.co/models/starvector/starvector-1b-im2svg"),
		StarVectorToken:  os.Getenv("HF_API_TOKEN"),
		LLMBaseURL:       getenv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:        os.Getenv("LLM_API_KEY"),
		LLMModel:         getenv("LLM_MODEL", ""),
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("kydyd exited with error: %v", err)
	}
}

func run() error {
	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg := LoadConfig()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("data_dir", cfg.DataDir),
		zap.String("assets_dir", cfg.AssetsDir),
		zap.String("index_backend", cfg.IndexBackend),
		zap.String("generator_version", cfg.GeneratorVersion),
		zap.Bool("starvector_enabled", cfg.StarVectorToken != ""),
		zap.Bool("llm_enabled", cfg.LLMAPIKey != ""),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.IndexBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)
	}

	// ----- Asset store -----
	index, err := assetstore.NewIndex(assetstore.IndexConfig{
		Backend: cfg.IndexBackend,
		Prefix:  "kydy:primitives",
	}, cfg.DataDir, redisClient)
	if err != nil {
		return err
	}
	index = assetstore.NewLoggingIndex(index)

	store, err := assetstore.New(cfg.AssetsDir, index, logger)
	if err != nil {
		return err
	}

	// ----- Remote generation (optional) -----
	var remote starvector.Client
	if cfg.StarVectorToken != "" {
		remote, err = starvector.NewClient(starvector.Config{
			BaseURL:  cfg.StarVectorURL,
			APIToken: cfg.StarVectorToken,
		}, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Info("HF_API_TOKEN not set, remote generation disabled")
	}

	// ----- Resolver -----
	res := resolver.New(store, remote, resolver.Config{
		Version: cfg.GeneratorVersion,
	}, logger)

	// ----- Lesson extraction -----
	var extractor lesson.Extractor
	if cfg.LLMAPIKey != "" {
		extractor = lesson.NewLLMExtractor(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	} else {
		logger.Info("LLM_API_KEY not set, using heuristic lesson extraction")
		extractor = lesson.NewHeuristicExtractor()
	}

	// ----- Sessions -----
	sessions, err := session.NewStore(cfg.DataDir + "/sessions")
	if err != nil {
		return err
	}

	// ----- Handlers -----
	primitiveHandler := handlers.NewPrimitiveHandler(res, store)
	lessonHandler := handlers.NewLessonHandler(extractor, res, cfg.DataDir)
	sessionHandler := handlers.NewSessionHandler(sessions)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, primitiveHandler, lessonHandler, sessionHandler)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting kydyd",
		zap.String("addr", srv.Addr),
		zap.String("index_backend", cfg.IndexBackend),
		zap.String("generator_version", cfg.GeneratorVersion),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
