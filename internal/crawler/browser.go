package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/domain"
)

// BrowserFetcher renders pages in headless Chrome before reading the markup.
// Used for directory pages whose profile content is filled in by script.
// One browser process serves every fetch; each fetch runs in its own tab.
type BrowserFetcher struct {
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	timeout       time.Duration
	logger        *zap.Logger

	startOnce sync.Once
	startErr  error
}

// NewBrowserFetcher prepares a shared browser. Chrome is launched by the first
// Fetch, not here. Call Close when done.
func NewBrowserFetcher(timeout time.Duration, userAgent string, logger *zap.Logger, extra ...chromedp.ExecAllocatorOption) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	opts = append(opts, extra...)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))

	return &BrowserFetcher{
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		timeout:       timeout,
		logger:        logger,
	}
}

// start launches the browser once. Tabs created before it runs would each
// allocate a browser of their own.
func (b *BrowserFetcher) start() error {
	b.startOnce.Do(func() {
		b.startErr = chromedp.Run(b.browserCtx)
		if b.startErr != nil {
			b.logger.Error("failed to launch browser", zap.Error(b.startErr))
		}
	})
	return b.startErr
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := b.start(); err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	// Abandon the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	status := documentStatus(resp)
	if status == 0 {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("no document response")}
	}
	if status < 200 || status > 299 {
		return "", &domain.FetchError{URL: url, StatusCode: status}
	}

	var markup string
	if err := chromedp.Run(tabCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	); err != nil {
		return "", &domain.FetchError{URL: url, StatusCode: status, Err: err}
	}
	return markup, nil
}

func documentStatus(resp *network.Response) int {
	if resp == nil {
		return 0
	}
	return int(resp.Status)
}

// Close shuts down the shared browser.
func (b *BrowserFetcher) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}
