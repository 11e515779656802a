package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/kgharvest/internal/domain"
	"github.com/user/kgharvest/internal/manifest"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, "  https://example.com/companies/airbnb  \n\n\nhttps://example.com/companies/stripe\n\t\nhttps://example.com/companies/doordash")

	dir, err := manifest.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []domain.SourceEntry{
		{Key: "airbnb", URL: "https://example.com/companies/airbnb"},
		{Key: "stripe", URL: "https://example.com/companies/stripe"},
		{Key: "doordash", URL: "https://example.com/companies/doordash"},
	}, dir.Entries())
	assert.Equal(t, 3, dir.Len())
}

func TestLoad_DuplicateKeyOverwritesInPlace(t *testing.T) {
	path := writeManifest(t, "https://a.example/companies/acme\nhttps://a.example/companies/zeta\nhttps://b.example/directory/acme\n")

	dir, err := manifest.Load(path)
	require.NoError(t, err)

	entries := dir.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.SourceEntry{Key: "acme", URL: "https://b.example/directory/acme"}, entries[0])
	assert.Equal(t, "zeta", entries[1].Key)

	url, ok := dir.Lookup("acme")
	assert.True(t, ok)
	assert.Equal(t, "https://b.example/directory/acme", url)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.com/companies/airbnb", want: "airbnb"},
		{url: "https://example.com/companies/airbnb/", want: ""},
		{url: "airbnb", want: "airbnb"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, manifest.KeyFor(tt.url))
		})
	}
}
