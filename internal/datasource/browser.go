package datasource

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser renders JS-heavy pages through headless Chrome. It exists
// for the sustainability page, whose peer table is built client-side
// and invisible to a static fetch.
type Browser struct {
	headless  bool
	userAgent string
	timeout   time.Duration
}

// NewBrowser creates a rendered-page fetcher.
func NewBrowser(headless bool, userAgent string, timeout time.Duration) *Browser {
	return &Browser{
		headless:  headless,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// RenderedHTML navigates to the URL in a fresh browser context, waits
// for the document body and returns the rendered outer HTML.
func (b *Browser) RenderedHTML(ctx context.Context, pageURL string) (string, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", b.headless))
	if b.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.userAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	if b.timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, b.timeout)
		defer cancelTimeout()
	}

	slog.Debug("rendering page in headless browser", slog.String("url", pageURL))

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fetchError("failed to render page: "+pageURL, err)
	}
	return html, nil
}
