package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/config"
	"github.com/jonathan/presence-analyzer/internal/fetch"
	"github.com/jonathan/presence-analyzer/internal/ingestion"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/parsing"
	"github.com/jonathan/presence-analyzer/internal/roadmap"
	"github.com/jonathan/presence-analyzer/internal/rolefit"
)

// LLMConfig maps the process configuration to the model gateway configuration.
func LLMConfig(cfg *config.Config) *llm.Config {
	c := &llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model(),
	}
	if c.Provider == llm.ProviderOpenAI {
		c.BaseURL = cfg.OpenAIURL
	}
	return c
}

// FetcherOptions maps the process configuration to profile fetcher options.
func FetcherOptions(cfg *config.Config, logger *zap.Logger) []fetch.ProfileFetcherOption {
	opts := []fetch.ProfileFetcherOption{
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithLogger(logger),
	}
	if cfg.FetchUseBrowser {
		opts = append(opts, fetch.WithBrowserFallback(nil))
	}
	return opts
}

// New builds a fully wired Analyzer from configuration.
// A missing API key is not an error here; model stages fail per request instead.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := llm.NewClient(ctx, LLMConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return NewWithClient(cfg, client, logger), nil
}

// NewWithClient builds an Analyzer around an existing model client.
// The Analyzer takes ownership of the client and closes it on Close.
func NewWithClient(cfg *config.Config, client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	fetcher := fetch.NewProfileFetcher(FetcherOptions(cfg, logger)...)
	ingester := ingestion.NewIngestor(ingestion.NewPDFExtractor(nil), fetcher, cfg.MaxPDFMB, logger)

	a := NewAnalyzer(
		ingester,
		parsing.NewProfileExtractor(client, logger),
		rolefit.NewAnalyzer(client, logger),
		roadmap.NewGenerator(client, logger),
		logger,
	)
	a.closer = client.Close
	logger.Info("analyzer ready",
		zap.String("provider", string(client.Provider())),
		zap.String("model", client.Model()),
		zap.Bool("browser_fallback", cfg.FetchUseBrowser))
	return a
}
