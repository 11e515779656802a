package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jOpener opens driver sessions against a Neo4j server.
type Neo4jOpener struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jOpener(uri, user, password string) (*Neo4jOpener, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("unable to create neo4j driver: %w", err)
	}
	return &Neo4jOpener{driver: driver}, nil
}

func (o *Neo4jOpener) OpenSession(ctx context.Context, database string) Session {
	return &neo4jSession{
		session: o.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: database}),
	}
}

// VerifyConnectivity checks the server is reachable with the configured credentials.
func (o *Neo4jOpener) VerifyConnectivity(ctx context.Context) error {
	return o.driver.VerifyConnectivity(ctx)
}

func (o *Neo4jOpener) Close(ctx context.Context) error {
	return o.driver.Close(ctx)
}

type neo4jSession struct {
	session neo4j.SessionWithContext
}

func (s *neo4jSession) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := s.session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = rec.AsMap()
	}
	return out, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}
