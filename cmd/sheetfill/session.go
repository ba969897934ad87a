package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/cache"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/config"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/observability"
)

// session holds everything one command opens and must close.
type session struct {
	cfg     *config.Config
	logger  zerolog.Logger
	wb      *grid.Workbook
	engine  *sheetfill.Engine
	cache   cache.Client
	offline bool
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

func openSession(ctx context.Context, workbookPath string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	if _, err := os.Stat(workbookPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", workbookPath)
	}
	wb, err := grid.OpenWorkbook(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb.SetOutput(outputPath)

	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		wb.Close()
		return nil, err
	}
	sheet.SetAuthor(cfg.Highlight.Author)

	s := &session{
		cfg:     cfg,
		logger:  logger,
		wb:      wb,
		offline: offline || cfg.Offline(),
	}

	collab := sheetfill.OfflineCollaborators()
	if !s.offline {
		s.cache, err = newCache(ctx, cfg.Cache)
		if err != nil {
			wb.Close()
			return nil, err
		}
		collab = sheetfill.ModelCollaborators(newLLMClient(cfg, s.cache, logger))
	}

	s.engine = sheetfill.NewEngine(sheet, collab, sheetfill.Options{
		Logger:         &logger,
		HighlightColor: cfg.Highlight.Color,
	})
	logger.Debug().
		Str("workbook", workbookPath).
		Str("sheet", sheet.Name()).
		Bool("offline", s.offline).
		Msg("session opened")
	return s, nil
}

func (s *session) Close() error {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close cache")
		}
	}
	return s.wb.Close()
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Client, error) {
	switch cfg.Driver {
	case "memory":
		return cache.NewMemoryClient(), nil
	case "redis":
		rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, nil
	}
}

func newLLMClient(cfg *config.Config, cc cache.Client, logger zerolog.Logger) *llm.Client {
	opts := []llm.Option{
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithMaxRetries(cfg.LLM.MaxRetries),
		llm.WithLogger(logger),
		llm.WithPDFQuality(cfg.LLM.PDFQuality),
	}
	if cc != nil {
		opts = append(opts, llm.WithCache(cc, cfg.Cache.TTL))
	}
	return llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, opts...)
}
