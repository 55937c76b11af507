package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/fetch"
	"github.com/jonathan/presence-analyzer/internal/testutil"
	"github.com/jonathan/presence-analyzer/internal/types"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

type recordingFetcher struct {
	calls   int
	got     types.ProfileURLs
	signals fetch.ProfileSignals
}

func (f *recordingFetcher) FetchAll(_ context.Context, urls types.ProfileURLs) fetch.ProfileSignals {
	f.calls++
	f.got = urls
	return f.signals
}

func unavailableSignals() fetch.ProfileSignals {
	return fetch.ProfileSignals{
		GitHub:    fetch.Unavailable(fetch.ReasonNotProvided),
		LinkedIn:  fetch.Unavailable(fetch.ReasonNotProvided),
		Portfolio: fetch.Unavailable(fetch.ReasonNotProvided),
	}
}

func TestIngest_RealPDFNoURLs(t *testing.T) {
	fetcher := &recordingFetcher{signals: unavailableSignals()}
	ing := NewIngestor(nil, fetcher, 10, nil)

	payload, err := ing.Ingest(context.Background(), testutil.BuildPDF("Jane Doe", "Backend Engineer with Go"), validation.URLInputs{})
	require.NoError(t, err)

	assert.Contains(t, payload.CVText, "Jane Doe")
	assert.Nil(t, payload.CVExtractionNote)
	assert.Equal(t, types.Unavailable, payload.GitHub)
	assert.Equal(t, types.Unavailable, payload.LinkedIn)
	assert.Equal(t, types.Unavailable, payload.Portfolio)
	assert.Equal(t, 1, fetcher.calls)
}

func TestIngest_PassesNormalizedURLsAndSignals(t *testing.T) {
	fetcher := &recordingFetcher{signals: fetch.ProfileSignals{
		GitHub:    fetch.Fetched("octocat repos"),
		LinkedIn:  fetch.Unavailable(fetch.ReasonLoginWall),
		Portfolio: fetch.Unavailable(fetch.ReasonNotProvided),
	}}
	ing := NewIngestor(NewPDFExtractor(stubDecoder{text: "Jane Doe, Go developer"}), fetcher, 10, nil)

	payload, err := ing.Ingest(context.Background(), []byte("%PDF-1.4"), validation.URLInputs{
		GitHubURL:   "github.com/octocat",
		LinkedInURL: "https://linkedin.com/in/jdoe",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/octocat", fetcher.got.GitHub)
	assert.Equal(t, "https://linkedin.com/in/jdoe", fetcher.got.LinkedIn)
	assert.Empty(t, fetcher.got.Portfolio)
	assert.Equal(t, "octocat repos", payload.GitHub)
	assert.Equal(t, types.Unavailable, payload.LinkedIn)
}

func TestIngest_ValidationFailureSkipsWork(t *testing.T) {
	fetcher := &recordingFetcher{}
	ing := NewIngestor(NewPDFExtractor(stubDecoder{text: "unused"}), fetcher, 10, nil)

	_, err := ing.Ingest(context.Background(), []byte("%PDF-1.4"), validation.URLInputs{GitHubURL: "https://github.com"})
	require.Error(t, err)
	assert.Equal(t, "Invalid GitHub URL", err.Error())
	assert.Equal(t, 0, fetcher.calls)
}

func TestIngest_SparseNonEmptyContinuesWithNote(t *testing.T) {
	fetcher := &recordingFetcher{signals: unavailableSignals()}
	ing := NewIngestor(NewPDFExtractor(stubDecoder{text: "Jane"}), fetcher, 10, nil)

	payload, err := ing.Ingest(context.Background(), []byte("%PDF-1.4"), validation.URLInputs{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", payload.CVText)
	require.NotNil(t, payload.CVExtractionNote)
	assert.Equal(t, MsgSparseContent, *payload.CVExtractionNote)
}

func TestIngest_EmptyTextFails(t *testing.T) {
	fetcher := &recordingFetcher{}
	ing := NewIngestor(NewPDFExtractor(stubDecoder{text: "   "}), fetcher, 10, nil)

	_, err := ing.Ingest(context.Background(), []byte("%PDF-1.4"), validation.URLInputs{})
	require.Error(t, err)
	assert.Equal(t, MsgSparseContent, err.Error())
	assert.True(t, apperr.IsKind(err, apperr.KindExtraction))
	assert.Equal(t, 0, fetcher.calls)
}
