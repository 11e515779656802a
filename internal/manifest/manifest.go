// Package manifest resolves the static list of directory page URLs into keyed sources.
package manifest

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/user/kgharvest/internal/domain"
)

// Directory is an ordered key -> URL mapping. Iteration follows the order in
// which keys first appeared; a repeated key replaces the earlier URL in place.
type Directory struct {
	keys []string
	urls map[string]string
}

// Load reads one URL per line from path. Surrounding whitespace is ignored and
// blank lines are skipped.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigurationError{Path: path, Err: err}
	}

	dir := &Directory{urls: make(map[string]string)}
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dir.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.ConfigurationError{Path: path, Err: err}
	}
	return dir, nil
}

// Add registers url under its derived key.
func (d *Directory) Add(url string) {
	if d.urls == nil {
		d.urls = make(map[string]string)
	}
	key := KeyFor(url)
	if _, seen := d.urls[key]; !seen {
		d.keys = append(d.keys, key)
	}
	d.urls[key] = url
}

// KeyFor returns the last '/'-delimited segment of url.
func KeyFor(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}

// Entries returns the sources in directory order.
func (d *Directory) Entries() []domain.SourceEntry {
	entries := make([]domain.SourceEntry, 0, len(d.keys))
	for _, k := range d.keys {
		entries = append(entries, domain.SourceEntry{Key: k, URL: d.urls[k]})
	}
	return entries
}

// Lookup returns the URL registered for key.
func (d *Directory) Lookup(key string) (string, bool) {
	url, ok := d.urls[key]
	return url, ok
}

func (d *Directory) Len() int { return len(d.keys) }
