package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"tareas-go/app/models"
)

// Neo4jStore keeps each tarea as a (:Tarea) node. Numbers come from a single
// (:TareaSeq) counter node. Reset puts uniqueness constraints on the counter's
// name and on numero_tarea, so concurrent first inserts cannot create a second
// counter, and the SET on the counter locks it before the increment is read.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// OpenNeo4j creates the driver and verifies it can reach the server.
func OpenNeo4j(ctx context.Context, uri, user, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Neo4jStore{driver: driver}, nil
}

// Close releases the driver.
func (s *Neo4jStore) Close() error { return s.driver.Close(context.Background()) }

// neo4jSchema is applied by Reset. Schema changes cannot share a transaction
// with data writes, so each statement runs on its own.
var neo4jSchema = []string{
	"CREATE CONSTRAINT tarea_seq_name IF NOT EXISTS FOR (s:TareaSeq) REQUIRE s.name IS UNIQUE",
	"CREATE CONSTRAINT tarea_numero IF NOT EXISTS FOR (t:Tarea) REQUIRE t.numero_tarea IS UNIQUE",
}

// Reset deletes every tarea and the counter, then ensures the constraints exist.
func (s *Neo4jStore) Reset(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := append([]string{"MATCH (n) WHERE n:Tarea OR n:TareaSeq DETACH DELETE n"}, neo4jSchema...)
	for _, stmt := range statements {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, err
			}
			_, err = res.Consume(ctx)
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("run %q: %w", stmt, err)
		}
	}
	return nil
}

// Insert bumps the counter and creates the node in one transaction.
func (s *Neo4jStore) Insert(ctx context.Context, descripcion, conversationID string) (int64, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MERGE (s:TareaSeq {name: 'tareas'}) "+
				"ON CREATE SET s.value = 0 "+
				"SET s.value = s.value + 1 "+
				"WITH s "+
				"CREATE (t:Tarea {numero_tarea: s.value, descripcion: $descripcion, conversationID: $conversationID}) "+
				"RETURN t.numero_tarea AS numero_tarea",
			map[string]any{
				"descripcion":    descripcion,
				"conversationID": conversationID,
			},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _, err := neo4j.GetRecordValue[int64](record, "numero_tarea")
		return n, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// UpdateDescription sets the description and returns how many nodes matched.
func (s *Neo4jStore) UpdateDescription(ctx context.Context, numeroTarea int64, descripcion string) (int64, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"OPTIONAL MATCH (t:Tarea {numero_tarea: $numero}) "+
				"SET t.descripcion = $descripcion "+
				"RETURN count(t) AS affected",
			map[string]any{
				"numero":      numeroTarea,
				"descripcion": descripcion,
			},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _, err := neo4j.GetRecordValue[int64](record, "affected")
		return n, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// All returns every tarea ordered by numero_tarea.
func (s *Neo4jStore) All(ctx context.Context) ([]models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Tarea) "+
				"RETURN t.numero_tarea AS numero_tarea, t.descripcion AS descripcion, t.conversationID AS conversationID "+
				"ORDER BY t.numero_tarea",
			nil,
		)
		if err != nil {
			return nil, err
		}

		tasks := make([]models.Task, 0)
		for res.Next(ctx) {
			task, err := recordToTask(res.Record())
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Task), nil
}

// Get looks up one tarea by numero_tarea.
func (s *Neo4jStore) Get(ctx context.Context, numeroTarea int64) (models.Task, bool, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Tarea {numero_tarea: $numero}) "+
				"RETURN t.numero_tarea AS numero_tarea, t.descripcion AS descripcion, t.conversationID AS conversationID",
			map[string]any{"numero": numeroTarea},
		)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return recordToTask(records[0])
	})
	if err != nil {
		return models.Task{}, false, err
	}
	if result == nil {
		return models.Task{}, false, nil
	}
	return result.(models.Task), true, nil
}

func recordToTask(record *neo4j.Record) (models.Task, error) {
	n, _, err := neo4j.GetRecordValue[int64](record, "numero_tarea")
	if err != nil {
		return models.Task{}, err
	}
	desc, _, err := neo4j.GetRecordValue[string](record, "descripcion")
	if err != nil {
		return models.Task{}, err
	}
	conv, _, err := neo4j.GetRecordValue[string](record, "conversationID")
	if err != nil {
		return models.Task{}, err
	}
	return models.Task{NumeroTarea: n, Descripcion: desc, ConversationID: conv}, nil
}
