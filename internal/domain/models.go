package domain

import "github.com/google/uuid"

// DocumentKind tags the payload format handed to the ingestion sink.
type DocumentKind string

const KindText DocumentKind = "text"

// SourceEntry is one line of the source manifest.
type SourceEntry struct {
	Key string
	URL string
}

// ContentID identifies a normalized document in the sink and in the graph.
type ContentID = uuid.UUID

// NewContentID derives the document identifier from a source key.
// The same key always yields the same ID, so re-ingesting a page
// targets the same logical document.
func NewContentID(key string) ContentID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(key))
}

// NormalizedDocument is the cleaned, section-tagged body of one source page.
type NormalizedDocument struct {
	ID        ContentID
	Kind      DocumentKind
	SourceKey string
	SourceURL string
	Body      string
	Metadata  map[string]any
}

// NewTextDocument builds the document record for a harvested source.
func NewTextDocument(entry SourceEntry, body string) NormalizedDocument {
	return NormalizedDocument{
		ID:        NewContentID(entry.Key),
		Kind:      KindText,
		SourceKey: entry.Key,
		SourceURL: entry.URL,
		Body:      body,
		Metadata:  map[string]any{},
	}
}
