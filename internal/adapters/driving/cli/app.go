package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docintake/internal/adapters/driven/ai"
	"github.com/custodia-labs/docintake/internal/adapters/driven/classifier"
	"github.com/custodia-labs/docintake/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/uploads"
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/core/services"
	"github.com/custodia-labs/docintake/internal/extractors"
	"github.com/custodia-labs/docintake/internal/logger"
	"github.com/custodia-labs/docintake/internal/metrics"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	envAPIKey           = "DOCINTAKE_API_KEY"
	envOpenRouterAPIKey = "OPENROUTER_API_KEY"
	envDataDir          = "DOCINTAKE_DATA_DIR"
)

// bootstrap wires the driven adapters into the core services.
func bootstrap(ctx context.Context) error {
	logger.Section("Bootstrap")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Reading .env: %v", err)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	applyOverrides(settings, os.Getenv)
	if logFormat == "" {
		logger.SetFormat(settings.Log.Format)
	}
	logger.Debug("Config: %s, data dir: %s, backend: %s",
		configStore.Path(), settings.Store.DataDir, settings.Store.Backend)

	var opened closers
	store, err := openCorpusStore(ctx, settings.Store)
	if err != nil {
		return err
	}
	opened.add(store.Close)

	uploadStore, err := uploads.NewStore(settings.Store.UploadDir())
	if err != nil {
		_ = opened.close()
		return err
	}
	opened.add(uploadStore.Close)

	llm, err := ai.CreateLLMService(&settings.Classifier)
	if err != nil {
		logger.Warn("Classifier disabled: %v", err)
		llm = nil
	}
	if llm == nil {
		logger.Warn("No classifier configured; ingestion will fail until 'docintake settings classifier' is run")
	} else {
		opened.add(llm.Close)
	}

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(configStore.Path()), "prompts"))
	if err != nil {
		_ = opened.close()
		return fmt.Errorf("open prompts: %w", err)
	}

	cls := classifier.New(llm,
		classifier.WithPromptStore(prompts),
		classifier.WithTextLimit(settings.Classifier.TextLimit, settings.Classifier.Truncation),
	)

	m := metrics.NewMetrics()
	if n, err := store.Count(ctx); err == nil {
		m.SetCorpusRecords(n)
	}

	settingsService = settingsSvc
	ingestService = services.NewIngestService(
		extractors.NewDefaultRegistry(),
		cls,
		store,
		uploadStore,
		services.WithMetrics(m),
		services.WithClassifyTimeout(settings.Classifier.Timeout),
	)
	retrievalService = services.NewRetrievalService(store, m)
	appSettings = settings
	appMetrics = m
	watchPrompts = prompts.Watch
	closeServices = opened.close
	servicesReady = true

	return nil
}

// closers releases resources in the reverse order they were opened.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// applyOverrides layers environment variables and the --data-dir flag over stored settings.
func applyOverrides(settings *domain.AppSettings, getenv func(string) string) {
	if key := getenv(envAPIKey); key != "" {
		settings.Classifier.APIKey = key
	} else if settings.Classifier.APIKey == "" && settings.Classifier.Provider == domain.AIProviderOpenRouter {
		settings.Classifier.APIKey = getenv(envOpenRouterAPIKey)
	}

	if dir := getenv(envDataDir); dir != "" {
		settings.Store.DataDir = dir
	}
	if dataDir != "" {
		settings.Store.DataDir = dataDir
	}
}

// openCorpusStore opens the configured backend and hydrates it.
func openCorpusStore(ctx context.Context, settings domain.StoreSettings) (driven.CorpusStore, error) {
	switch settings.Backend {
	case domain.StoreBackendJSON:
		store, err := jsonfile.NewStore(ctx, settings.CorpusFile())
		if err != nil {
			return nil, fmt.Errorf("open corpus %s: %w", settings.CorpusFile(), err)
		}
		return store, nil
	case domain.StoreBackendSQLite:
		store, err := sqlite.NewStore(ctx, settings.DatabaseFile())
		if err != nil {
			return nil, fmt.Errorf("open corpus %s: %w", settings.DatabaseFile(), err)
		}
		return store, nil
	case domain.StoreBackendMemory:
		return memory.NewCorpusStore(), nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}
