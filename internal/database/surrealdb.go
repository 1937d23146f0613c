package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB adapts the SurrealDB driver to the Database interface.
// Query results pass through as {status, result} maps, which the
// repository layer unwraps.
type SurrealDB struct {
	conn *surrealdb.DB
	cfg  Config
}

// NewSurrealDB returns an unconnected adapter; call Connect before use.
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{cfg: cfg}
}

// Connect dials the websocket endpoint, signs in, and selects the
// configured namespace and database.
func (s *SurrealDB) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.cfg.Host, s.cfg.Port)
	conn, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := conn.SignIn(ctx, &surrealdb.Auth{
		Username: s.cfg.User,
		Password: s.cfg.Password,
	}); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := conn.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.conn = conn
	return nil
}

// Close tears down the connection. Safe to call before Connect.
func (s *SurrealDB) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}

// Ping verifies the connection is alive by asking for the server version.
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.conn == nil {
		return ErrConnection
	}
	if _, err := s.conn.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs a statement batch and returns one {status, result} map per
// statement. A failed statement fails the whole call.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.conn == nil {
		return nil, ErrConnection
	}

	batches, err := surrealdb.Query[interface{}](ctx, s.conn, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if batches == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*batches))
	for _, batch := range *batches {
		if batch.Status != "OK" {
			if batch.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, batch.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": batch.Status,
			"result": batch.Result,
		})
	}

	return output, nil
}

// QueryOne runs a statement expected to yield a single record and
// returns it unwrapped. ErrNotFound means the statement matched nothing.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return results[0], nil
	}
	if status, ok := resp["status"].(string); !ok || status != "OK" {
		return results[0], nil
	}

	rows, ok := resp["result"].([]interface{})
	if !ok {
		// Scalar result, e.g. a count
		return resp["result"], nil
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Execute runs a statement for its side effects only.
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}
