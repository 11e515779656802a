package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memGraph understands the statements Admin issues, plus a failing one.
type memGraph struct {
	triples   []Triple
	databases []string
	opened    int
	closed    int
}

func (g *memGraph) OpenSession(_ context.Context, database string) Session {
	g.opened++
	g.databases = append(g.databases, database)
	return &memSession{g: g}
}

type memSession struct{ g *memGraph }

func (s *memSession) Run(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	switch query {
	case DeleteAllQuery:
		s.g.triples = nil
		return nil, nil
	case RelationshipsQuery:
		var out []map[string]any
		for _, t := range s.g.triples {
			out = append(out, map[string]any{"subject": t.Subject, "relation": t.Relation, "object": t.Object})
		}
		return out, nil
	case pingQuery:
		return []map[string]any{{"ok": int64(1)}}, nil
	case "FAIL":
		return nil, errors.New("syntax error")
	default:
		return []map[string]any{{"query": query, "params": params}}, nil
	}
}

func (s *memSession) Close(context.Context) error {
	s.g.closed++
	return nil
}

func seeded() *memGraph {
	return &memGraph{triples: []Triple{
		{Subject: "Airbnb", Relation: "FOUNDED", Object: "2008"},
		{Subject: "Brian Chesky", Relation: "FOUNDED", Object: "Airbnb"},
	}}
}

func TestAdmin_ListRelationships(t *testing.T) {
	g := seeded()
	admin := NewAdmin(g, "kg", zap.NewNop())

	triples, err := admin.ListRelationships(context.Background())
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, "Brian Chesky -[FOUNDED]-> Airbnb", triples[1].String())
	assert.Equal(t, []string{"kg"}, g.databases)
}

func TestAdmin_DeleteAllThenListIsEmpty(t *testing.T) {
	g := seeded()
	admin := NewAdmin(g, "kg", zap.NewNop())

	require.NoError(t, admin.DeleteAll(context.Background()))

	triples, err := admin.ListRelationships(context.Background())
	require.NoError(t, err)
	assert.Empty(t, triples)
	assert.Equal(t, 2, g.opened)
	assert.Equal(t, 2, g.closed)
}

func TestAdmin_ExecuteQuery(t *testing.T) {
	g := &memGraph{}
	admin := NewAdmin(g, "kg", zap.NewNop())

	records, err := admin.ExecuteQuery(context.Background(), "MATCH (n {id: $id}) RETURN n", map[string]any{"id": "Airbnb"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"id": "Airbnb"}, records[0]["params"])

	records, err = admin.ExecuteQuery(context.Background(), "MATCH (n) RETURN count(n)", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, records[0]["params"])
}

func TestAdmin_SessionReleasedOnError(t *testing.T) {
	g := &memGraph{}
	admin := NewAdmin(g, "kg", zap.NewNop())

	_, err := admin.ExecuteQuery(context.Background(), "FAIL", nil)
	assert.ErrorContains(t, err, "syntax error")
	assert.Equal(t, 1, g.opened)
	assert.Equal(t, 1, g.closed)
}

func TestAdmin_Ping(t *testing.T) {
	assert.NoError(t, NewAdmin(&memGraph{}, "kg", zap.NewNop()).Ping(context.Background()))
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, "x", asString("x"))
	assert.Equal(t, "42", asString(int64(42)))
}
