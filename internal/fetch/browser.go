package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// SparsePortfolioLength is the extracted-text length below which a portfolio page is
// assumed to be rendered client-side and is retried in a headless browser.
const SparsePortfolioLength = 500

// IsSparsePage reports whether extracted page text is too short to be the real content.
func IsSparsePage(text string) bool {
	return len([]rune(strings.TrimSpace(text))) < SparsePortfolioLength
}

// Renderer loads url and returns the rendered document HTML. The deadline comes from ctx.
type Renderer func(ctx context.Context, url string) (string, error)

// HeadlessRenderer renders pages in a local headless Chrome or Chromium.
type HeadlessRenderer struct {
	// Settle is how long client-side scripts get to populate the page after the body is ready.
	Settle time.Duration
}

// Render implements Renderer.
func (h HeadlessRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(h.Settle),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	); err != nil {
		return "", fmt.Errorf("headless render of %s failed: %w", url, err)
	}
	return html, nil
}

// renderHeadless is the default Renderer.
func renderHeadless(ctx context.Context, url string) (string, error) {
	return HeadlessRenderer{Settle: time.Second}.Render(ctx, url)
}
