package services

import (
	"context"
	"fmt"
	"log/slog"

	"tareas-go/app/models"
	"tareas-go/app/store"
)

// TaskService applies validation and the description escaping policy on top
// of a Store.
type TaskService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(st store.Store, logger *slog.Logger) *TaskService {
	return &TaskService{store: st, logger: logger}
}

// Initialize drops and recreates the tareas table. Callers log the error
// and keep serving so a broken store surfaces on first use.
func (s *TaskService) Initialize(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("%w: reset: %w", ErrStorage, err)
	}
	return nil
}

// CreateTask stores a new task and returns its numero_tarea.
func (s *TaskService) CreateTask(ctx context.Context, descripcion, conversationID string) (int64, error) {
	if descripcion == "" || conversationID == "" {
		return 0, &InputError{Msg: msgCreateFieldsRequired}
	}

	n, err := s.store.Insert(ctx, EscapeDescription(descripcion), conversationID)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %w", ErrStorage, err)
	}
	s.logger.Debug("tarea created", "numero_tarea", n, "conversation_id", conversationID)
	return n, nil
}

// UpdateTask replaces the description of an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, numeroTarea int64, descripcion string) error {
	if descripcion == "" {
		return &InputError{Msg: msgDescriptionRequired}
	}

	affected, err := s.store.UpdateDescription(ctx, numeroTarea, EscapeDescription(descripcion))
	if err != nil {
		return fmt.Errorf("%w: update %d: %w", ErrStorage, numeroTarea, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTasks retrieves all tasks with their descriptions unescaped.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrStorage, err)
	}
	for i := range tasks {
		tasks[i].Descripcion = UnescapeDescription(tasks[i].Descripcion)
	}
	return tasks, nil
}

// GetTaskByNumber retrieves a single task with its description unescaped.
func (s *TaskService) GetTaskByNumber(ctx context.Context, numeroTarea int64) (*models.Task, error) {
	task, err := s.lookup(ctx, numeroTarea)
	if err != nil {
		return nil, err
	}
	task.Descripcion = UnescapeDescription(task.Descripcion)
	return task, nil
}

// RenderDescriptionHTML returns an HTML document whose body is the stored
// description exactly as persisted.
//
// The stored text is already escaped once by EscapeDescription, and it is
// written into the document without unescaping and without a second round of
// escaping. Routing this through html/template or UnescapeDescription changes
// the output clients see.
func (s *TaskService) RenderDescriptionHTML(ctx context.Context, numeroTarea int64) (string, error) {
	task, err := s.lookup(ctx, numeroTarea)
	if err != nil {
		return "", err
	}
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"></head><body>" +
		task.Descripcion +
		"</body></html>", nil
}

func (s *TaskService) lookup(ctx context.Context, numeroTarea int64) (*models.Task, error) {
	task, found, err := s.store.Get(ctx, numeroTarea)
	if err != nil {
		return nil, fmt.Errorf("%w: get %d: %w", ErrStorage, numeroTarea, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &task, nil
}
