// Package graph provides reset, audit and ad-hoc query operations over the knowledge graph store.
package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	DeleteAllQuery = "MATCH (n) DETACH DELETE n"

	RelationshipsQuery = `MATCH (n1)-[r]->(n2)
RETURN n1.id AS subject, type(r) AS relation, n2.id AS object`

	pingQuery = "RETURN 1 AS ok"
)

// Session runs statements against one database. It must be closed after use.
type Session interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	Close(ctx context.Context) error
}

// SessionOpener opens sessions against a named database.
type SessionOpener interface {
	OpenSession(ctx context.Context, database string) Session
}

// Triple is one stored relationship.
type Triple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

func (t Triple) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", t.Subject, t.Relation, t.Object)
}

// Admin scopes a session to each call and releases it on return.
type Admin struct {
	opener   SessionOpener
	database string
	logger   *zap.Logger
}

func NewAdmin(o SessionOpener, database string, logger *zap.Logger) *Admin {
	return &Admin{opener: o, database: database, logger: logger}
}

// ExecuteQuery runs an arbitrary statement and returns its records.
// The statement is not validated.
func (a *Admin) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	a.logger.Info("executing query", zap.String("query", query))
	return a.run(ctx, query, params)
}

// DeleteAll detaches and deletes every node and relationship in the database.
func (a *Admin) DeleteAll(ctx context.Context) error {
	if _, err := a.run(ctx, DeleteAllQuery, nil); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	a.logger.Info("all entries deleted", zap.String("database", a.database))
	return nil
}

// ListRelationships returns every (subject, relation, object) triple in the database.
func (a *Admin) ListRelationships(ctx context.Context) ([]Triple, error) {
	records, err := a.run(ctx, RelationshipsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	triples := make([]Triple, 0, len(records))
	for _, rec := range records {
		triples = append(triples, Triple{
			Subject:  asString(rec["subject"]),
			Relation: asString(rec["relation"]),
			Object:   asString(rec["object"]),
		})
	}
	return triples, nil
}

// Ping checks that the database answers a trivial statement.
func (a *Admin) Ping(ctx context.Context) error {
	_, err := a.run(ctx, pingQuery, nil)
	return err
}

func (a *Admin) run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := a.opener.OpenSession(ctx, a.database)
	defer func() {
		if err := session.Close(ctx); err != nil {
			a.logger.Warn("failed to close graph session", zap.Error(err))
		}
	}()
	if params == nil {
		params = map[string]any{}
	}
	return session.Run(ctx, query, params)
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
