package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"resumeforge/internal/account"
	"resumeforge/internal/api"
	"resumeforge/internal/config"
	"resumeforge/internal/database"
	"resumeforge/internal/export"
	"resumeforge/internal/pdf"
	"resumeforge/internal/render"
	"resumeforge/internal/resumes"
	"resumeforge/internal/storage"

	"resumeforge/internal/auth"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready", slog.String("driver", cfg.Database.Driver))

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database migrated")

	for _, dir := range []string{cfg.Artifacts.PDFDir, cfg.Artifacts.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create directory %q: %v", dir, err)
		}
	}

	sessions, err := auth.NewSessionService(cfg.Session)
	if err != nil {
		log.Fatalf("init session service: %v", err)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("init renderer: %v", err)
	}

	converter, err := pdf.NewConverter(cfg.Converter)
	if err != nil {
		log.Fatalf("init converter: %v", err)
	}
	logger.Info("converter ready", slog.String("kind", cfg.Converter.Kind))

	var archive export.Archive
	if cfg.Archive.Enabled {
		storageClient, err := storage.NewClient(cfg.Archive)
		if err != nil {
			log.Fatalf("init archive storage: %v", err)
		}
		archive = storageClient
		logger.Info("pdf archive ready", slog.String("bucket", cfg.Archive.Bucket))
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("ping redis: %v", err)
		}
		logger.Info("login throttle enabled", slog.String("redis_addr", cfg.Redis.Addr))
	}

	accounts := account.NewService(db)
	resumeService := resumes.NewService(db)
	exporter := export.NewExporter(renderer, converter, cfg.Artifacts.PDFDir, cfg.Converter.Timeout, archive, logger)

	router, err := api.NewRouter(logger)
	if err != nil {
		log.Fatalf("init router: %v", err)
	}
	api.RegisterRoutes(router, accounts, resumeService, renderer, exporter, sessions, redisClient, cfg)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
