// Package fetch - profiles.go fetches the three optional profile links concurrently.
package fetch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/presence-analyzer/internal/types"
)

// Signal is the outcome of one profile fetch: either fetched text or an unavailable reason.
type Signal struct {
	text    string
	reason  string
	fetched bool
}

// Fetched wraps usable page text.
func Fetched(text string) Signal {
	return Signal{text: text, fetched: true}
}

// Unavailable records why a profile could not be used.
func Unavailable(reason string) Signal {
	return Signal{reason: reason}
}

// Available reports whether the signal carries fetched text.
func (s Signal) Available() bool {
	return s.fetched
}

// Text returns the fetched text, or "" when unavailable.
func (s Signal) Text() string {
	return s.text
}

// Reason returns why the signal is unavailable, or "" when fetched.
func (s Signal) Reason() string {
	return s.reason
}

// Value returns the text, or the "unavailable" sentinel.
func (s Signal) Value() string {
	if !s.fetched {
		return types.Unavailable
	}
	return s.text
}

// ProfileSignals holds one Signal per profile link.
type ProfileSignals struct {
	GitHub    Signal
	LinkedIn  Signal
	Portfolio Signal
}

// ProfileFetcher fetches profile pages. A zero value is not usable; use NewProfileFetcher.
type ProfileFetcher struct {
	timeout    time.Duration
	client     *http.Client
	useBrowser bool
	render     Renderer
	logger     *zap.Logger
}

// ProfileFetcherOption customizes a ProfileFetcher.
type ProfileFetcherOption func(*ProfileFetcher)

// WithTimeout overrides the per-fetch deadline.
func WithTimeout(timeout time.Duration) ProfileFetcherOption {
	return func(f *ProfileFetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) ProfileFetcherOption {
	return func(f *ProfileFetcher) { f.client = client }
}

// WithBrowserFallback enables headless rendering of sparse portfolio pages.
// A nil renderer selects a local headless Chrome.
func WithBrowserFallback(render Renderer) ProfileFetcherOption {
	return func(f *ProfileFetcher) {
		f.useBrowser = true
		f.render = render
		if f.render == nil {
			f.render = renderHeadless
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *zap.Logger) ProfileFetcherOption {
	return func(f *ProfileFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewProfileFetcher creates a fetcher with the default 8 second deadline.
func NewProfileFetcher(opts ...ProfileFetcherOption) *ProfileFetcher {
	f := &ProfileFetcher{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll fetches every provided link concurrently and waits for all of them.
// A failure never cancels the other fetches and is never returned; it becomes an Unavailable signal.
func (f *ProfileFetcher) FetchAll(ctx context.Context, urls types.ProfileURLs) ProfileSignals {
	var signals ProfileSignals
	var g errgroup.Group

	g.Go(func() error {
		signals.GitHub = f.Fetch(ctx, PlatformGitHub, urls.GitHub)
		return nil
	})
	g.Go(func() error {
		signals.LinkedIn = f.Fetch(ctx, PlatformLinkedIn, urls.LinkedIn)
		return nil
	})
	g.Go(func() error {
		signals.Portfolio = f.Fetch(ctx, PlatformPortfolio, urls.Portfolio)
		return nil
	})
	_ = g.Wait()

	return signals
}

// Fetch retrieves one profile page and applies the platform's acceptance rules.
func (f *ProfileFetcher) Fetch(ctx context.Context, platform Platform, rawURL string) Signal {
	if rawURL == "" {
		return Unavailable(ReasonNotProvided)
	}

	// One deadline covers the HTTP attempt and any browser fallback.
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := DefaultOptions()
	opts.Timeout = f.timeout
	opts.Client = f.client

	start := time.Now()
	result, err := URL(ctx, rawURL, opts)
	if err != nil {
		f.logger.Debug("profile fetch failed",
			zap.String("platform", string(platform)),
			zap.String("url", rawURL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Unavailable(err.Error())
	}

	// Only a successful but sparse portfolio page is re-rendered.
	text := result.Text
	if platform == PlatformPortfolio && f.useBrowser && IsSparsePage(text) {
		text = f.renderFallback(ctx, rawURL, text)
	}

	if ok, reason := Accept(platform, text); !ok {
		f.logger.Debug("profile text rejected",
			zap.String("platform", string(platform)),
			zap.String("reason", reason))
		return Unavailable(reason)
	}
	return Fetched(text)
}

// renderFallback renders the page in a browser, keeping the HTTP text unless the rendered text is longer.
func (f *ProfileFetcher) renderFallback(ctx context.Context, rawURL, httpText string) string {
	html, err := f.render(ctx, rawURL)
	if err != nil {
		f.logger.Debug("browser fallback failed", zap.String("url", rawURL), zap.Error(err))
		return httpText
	}
	rendered, err := ExtractText(html)
	if err != nil || len(rendered) <= len(httpText) {
		return httpText
	}
	return Truncate(rendered, MaxTextLength)
}
