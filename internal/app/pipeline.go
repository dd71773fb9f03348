// Package app assembles the digest pipeline from configuration. Both the API
// server and the CLI build their service through it.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-digest/internal/adapter/repository"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/external/assemblyai"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/i18n"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
	"github.com/johnquangdev/meeting-digest/pkg/config"
)

// Options selects which optional collaborators get wired
type Options struct {
	// Registerer receives the pipeline metrics; nil skips instrumentation
	Registerer prometheus.Registerer
	// Completer replaces the Groq client, mainly for tests
	Completer pkgai.Completer
	// Stateless skips cache, database and archive even when configured
	Stateless bool
}

// Pipeline is a wired digest service plus the resources it holds open
type Pipeline struct {
	Service aiuse.Service
	closers []func() error
}

// Close releases database, cache and background resources
func (p *Pipeline) Close() error {
	var firstErr error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build wires the summarizer, QnA engine and the configured side services
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Pipeline, error) {
	p := &Pipeline{}

	catalog, err := i18n.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load label catalogs: %w", err)
	}
	renderer := render.NewRenderer(catalog, cfg.SummaryLimits())

	completer := opts.Completer
	modelName := cfg.Groq.Model
	if completer == nil {
		groq := pkgai.NewGroqClient(&cfg.Groq, logger)
		completer = groq
		modelName = groq.Model()
	}

	deps := aiuse.Dependencies{CacheTTL: cfg.Digest.CacheTTL, ModelName: modelName}
	if opts.Registerer != nil {
		m := metrics.NewDigestMetrics(opts.Registerer)
		completer = m.InstrumentCompleter(completer)
		deps.Metrics = m
	}

	format, ok := render.ParseFormat(cfg.Digest.DefaultFormat)
	if !ok {
		return nil, fmt.Errorf("unknown default format %q", cfg.Digest.DefaultFormat)
	}

	summarizer := aiuse.NewSummarizer(completer, renderer, aiuse.SummarizerConfig{
		MaxTokensPerChunk: cfg.Digest.MaxTokensPerChunk,
		OverlapTokens:     cfg.Digest.OverlapTokens,
		MaxChunks:         cfg.Digest.MaxChunks,
		DefaultLanguage:   cfg.Digest.DefaultLanguage,
		DefaultFormat:     format,
		Temperature:       cfg.Groq.Temperature,
	}, logger)
	qna := aiuse.NewQnAEngine(completer, cfg.Digest.MaxCues, cfg.Digest.DefaultLanguage, cfg.Groq.Temperature, logger)

	if cfg.Assembly.APIKey != "" {
		client := assemblyai.NewClient(cfg.Assembly.APIKey, cfg.Assembly.BaseURL)
		deps.Transcripts = assemblyai.NewTranscriptProvider(client, logger)
	}

	if !opts.Stateless {
		if err := p.wireState(ctx, cfg, logger, &deps); err != nil {
			p.Close()
			return nil, err
		}
	}

	p.Service = aiuse.NewDigestService(summarizer, qna, deps, logger)
	return p, nil
}

func (p *Pipeline) wireState(ctx context.Context, cfg *config.Config, logger *zap.Logger, deps *aiuse.Dependencies) error {
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		store := cache.NewRedisStore(client)
		p.closers = append(p.closers, store.Close)
		deps.Cache = store
	} else {
		store := cache.NewMemoryStore()
		p.closers = append(p.closers, store.Close)
		deps.Cache = store
	}

	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		p.closers = append(p.closers, func() error { return database.CloseDB(db) })

		if err := migrateIfEnabled(cfg, db, logger); err != nil {
			return err
		}
		deps.Repository = repository.NewSummaryRepository(db)
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewSummaryArchive(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		deps.Archiver = archive
	}
	return nil
}

func migrateIfEnabled(cfg *config.Config, db *gorm.DB, logger *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		if logger != nil {
			logger.Info("🔄 Skipping migrations; run `digest migrate up` to manage the schema")
		}
		return nil
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
