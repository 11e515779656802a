package crawler

import (
	"context"
	"fmt"
)

// Harvester fetches one directory page and normalizes it into a document body.
type Harvester struct {
	fetcher Fetcher
}

func NewHarvester(f Fetcher) *Harvester {
	return &Harvester{fetcher: f}
}

// Harvest returns the normalized body for url. Fetch failures are returned
// unchanged so callers can classify them with errors.Is(err, domain.ErrFetch).
func (h *Harvester) Harvest(ctx context.Context, url string) (string, error) {
	markup, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	body, err := Normalize(markup)
	if err != nil {
		return "", fmt.Errorf("normalize %s: %w", url, err)
	}
	return body, nil
}
