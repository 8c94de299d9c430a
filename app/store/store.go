// Package store holds the tareas table behind a small backend-neutral
// interface. Stores persist descriptions exactly as they are handed in; the
// HTML escaping policy lives in the services layer.
package store

import (
	"context"
	"fmt"

	"tareas-go/app/models"
)

// Store is the single table of tasks.
type Store interface {
	// Reset drops the table and recreates it empty. Numbering restarts at 1.
	Reset(ctx context.Context) error
	// Insert persists a row and returns the numero_tarea assigned to it.
	Insert(ctx context.Context, descripcion, conversationID string) (int64, error)
	// UpdateDescription overwrites the description of one row and reports
	// how many rows were affected (0 or 1).
	UpdateDescription(ctx context.Context, numeroTarea int64, descripcion string) (int64, error)
	// All returns every row ordered by numero_tarea.
	All(ctx context.Context) ([]models.Task, error)
	// Get looks up one row. found is false when no row matches.
	Get(ctx context.Context, numeroTarea int64) (task models.Task, found bool, err error)
	Close() error
}

// Supported backend names for Open.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverNeo4j    = "neo4j"
	DriverMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	DSN    string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Open returns the backend named by opts.Driver. It does not reset the table.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
		return OpenSQL(opts.Driver, opts.DSN)
	case DriverNeo4j:
		return OpenNeo4j(ctx, opts.Neo4jURI, opts.Neo4jUser, opts.Neo4jPassword)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
