package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/user/kgharvest/internal/domain"
	"github.com/user/kgharvest/internal/proxy"
)

// Fetcher retrieves the raw markup of one directory page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher issues a single blocking GET per page. It never retries;
// failures come back as *domain.FetchError.
type HTTPFetcher struct {
	client  *http.Client
	proxies *proxy.Manager
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration, pm *proxy.Manager) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = pm.ProxyFunc()

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		proxies: pm,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	if ua := f.proxies.GetUserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	return string(body), nil
}
