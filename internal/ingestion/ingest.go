package ingestion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/fetch"
	"github.com/jonathan/presence-analyzer/internal/types"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

// ProfileFetcher fetches the optional profile links.
type ProfileFetcher interface {
	FetchAll(ctx context.Context, urls types.ProfileURLs) fetch.ProfileSignals
}

// Ingestor validates inputs, extracts CV text and fetches profile links.
type Ingestor struct {
	extractor *PDFExtractor
	fetcher   ProfileFetcher
	maxPDFMB  int
	logger    *zap.Logger
}

// NewIngestor wires an Ingestor. A nil logger disables logging.
func NewIngestor(extractor *PDFExtractor, fetcher ProfileFetcher, maxPDFMB int, logger *zap.Logger) *Ingestor {
	if extractor == nil {
		extractor = NewPDFExtractor(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		extractor: extractor,
		fetcher:   fetcher,
		maxPDFMB:  maxPDFMB,
		logger:    logger,
	}
}

// Ingest runs validation, PDF extraction and the concurrent profile fetches, in that order.
// It fails on invalid input, on a decoder failure, or when the CV yields no text at all.
// Sparse but non-empty text continues with the advisory recorded in CVExtractionNote.
func (i *Ingestor) Ingest(ctx context.Context, pdf []byte, inputs validation.URLInputs) (*types.IngestionPayload, error) {
	urls, err := validation.ValidateInputs(pdf, inputs, i.maxPDFMB)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	extraction, err := i.extractor.Extract(pdf)
	if err != nil {
		i.logger.Info("PDF extraction failed", zap.Error(err))
		return nil, err
	}
	if extraction.Note != nil && extraction.Text == "" {
		return nil, extraction.Note
	}
	i.logger.Debug("PDF extracted",
		zap.Int("chars", len([]rune(extraction.Text))),
		zap.Duration("elapsed", time.Since(start)))

	signals := i.fetcher.FetchAll(ctx, urls)

	payload := &types.IngestionPayload{
		CVText:    extraction.Text,
		GitHub:    signals.GitHub.Value(),
		LinkedIn:  signals.LinkedIn.Value(),
		Portfolio: signals.Portfolio.Value(),
	}
	if extraction.Note != nil {
		note := extraction.Note.Message
		payload.CVExtractionNote = &note
	}
	return payload, nil
}
