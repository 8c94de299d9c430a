package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"tareas-go/app/models"
)

// dialect captures what differs between the SQL backends.
type dialect struct {
	driverName  string
	createTable string
	// returning is set when LastInsertId is unsupported and the insert must
	// read the key back with RETURNING.
	returning bool
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driverName: "sqlite3",
		createTable: `CREATE TABLE tareas (
    numero_tarea INTEGER PRIMARY KEY AUTOINCREMENT,
    descripcion TEXT NOT NULL,
    conversation_id TEXT NOT NULL
)`,
	},
	DriverMySQL: {
		driverName: "mysql",
		createTable: `CREATE TABLE tareas (
    numero_tarea BIGINT PRIMARY KEY AUTO_INCREMENT,
    descripcion TEXT NOT NULL,
    conversation_id TEXT NOT NULL
)`,
	},
	DriverPostgres: {
		driverName: "postgres",
		createTable: `CREATE TABLE tareas (
    numero_tarea BIGSERIAL PRIMARY KEY,
    descripcion TEXT NOT NULL,
    conversation_id TEXT NOT NULL
)`,
		returning: true,
	},
}

// SQLStore keeps the tareas table in a relational database through sqlx.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
}

// OpenSQL connects to one of the SQL backends. An empty DSN for sqlite means
// a private in-memory database.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unknown sql driver %q", driver)
	}
	if dsn == "" {
		if driver != DriverSQLite {
			return nil, fmt.Errorf("%s store requires a dsn", driver)
		}
		dsn = ":memory:"
	}

	db, err := sqlx.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every sqlite connection to :memory: is a separate database, so the
		// pool is pinned to one connection that is never recycled.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Close closes the underlying pool.
func (s *SQLStore) Close() error { return s.db.Close() }

// Reset drops and recreates the tareas table.
func (s *SQLStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS tareas`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Insert adds a row and returns its generated numero_tarea.
func (s *SQLStore) Insert(ctx context.Context, descripcion, conversationID string) (int64, error) {
	query := s.db.Rebind(`INSERT INTO tareas (descripcion, conversation_id) VALUES (?, ?)`)
	if s.dialect.returning {
		var n int64
		if err := s.db.QueryRowxContext(ctx, query+` RETURNING numero_tarea`, descripcion, conversationID).Scan(&n); err != nil {
			return 0, err
		}
		return n, nil
	}

	res, err := s.db.ExecContext(ctx, query, descripcion, conversationID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateDescription updates one row and returns RowsAffected.
func (s *SQLStore) UpdateDescription(ctx context.Context, numeroTarea int64, descripcion string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE tareas SET descripcion = ? WHERE numero_tarea = ?`),
		descripcion, numeroTarea)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// All selects every row ordered by numero_tarea.
func (s *SQLStore) All(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := s.db.SelectContext(ctx, &tasks,
		`SELECT numero_tarea, descripcion, conversation_id FROM tareas ORDER BY numero_tarea`)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get selects one row by numero_tarea.
func (s *SQLStore) Get(ctx context.Context, numeroTarea int64) (models.Task, bool, error) {
	var t models.Task
	err := s.db.GetContext(ctx, &t,
		s.db.Rebind(`SELECT numero_tarea, descripcion, conversation_id FROM tareas WHERE numero_tarea = ?`),
		numeroTarea)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, false, nil
	}
	if err != nil {
		return models.Task{}, false, err
	}
	return t, true, nil
}
