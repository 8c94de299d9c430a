package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"tareas-go/app/models"
	"tareas-go/app/services"

	"github.com/gorilla/mux"
)

const (
	msgInvalidPayload = "Cuerpo de la petición inválido"
	msgNotFound       = "Tarea no encontrada"
	msgCreateFailed   = "Error al crear la tarea"
	msgUpdateFailed   = "Error al actualizar la tarea"
	msgListFailed     = "Error al obtener las tareas"
	msgGetFailed      = "Error al obtener la tarea"
	msgExportFailed   = "Error al exportar las tareas"
	msgUnknownFormat  = "Formato de exportación desconocido"
)

// TaskController handles HTTP requests for tareas.
type TaskController struct {
	Service *services.TaskService
	Logger  *slog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger *slog.Logger) *TaskController {
	return &TaskController{Service: service, Logger: logger}
}

// GetTasks handles GET /tareas.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err, msgListFailed)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /tareas.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if !c.decode(w, r, &req) {
		return
	}

	n, err := c.Service.CreateTask(r.Context(), req.Descripcion, req.ConversationID)
	if err != nil {
		c.writeServiceError(w, r, err, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Mensaje: "Tarea creada", NumeroTarea: n})
}

// GetTaskByNumber handles GET /tareas/{numero_tarea}.
func (c *TaskController) GetTaskByNumber(w http.ResponseWriter, r *http.Request) {
	n, ok := numeroTarea(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	task, err := c.Service.GetTaskByNumber(r.Context(), n)
	if err != nil {
		c.writeServiceError(w, r, err, msgGetFailed)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tareas/{numero_tarea}.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTaskRequest
	if !c.decode(w, r, &req) {
		return
	}
	// UpdateTask validates the description before the lookup, so an empty one
	// is a 400 even when the path key is garbage.
	n, ok := numeroTarea(r)
	if !ok && req.Descripcion != "" {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := c.Service.UpdateTask(r.Context(), n, req.Descripcion); err != nil {
		c.writeServiceError(w, r, err, msgUpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Mensaje: "Tarea actualizada"})
}

// GetTaskDescriptionHTML handles GET /tareas/{numero_tarea}/desc. The body is
// the service's document written as-is.
func (c *TaskController) GetTaskDescriptionHTML(w http.ResponseWriter, r *http.Request) {
	n, ok := numeroTarea(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	doc, err := c.Service.RenderDescriptionHTML(r.Context(), n)
	if err != nil {
		c.writeServiceError(w, r, err, msgGetFailed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// ExportTasks handles GET /tareas/export?format=json|csv|pdf.
func (c *TaskController) ExportTasks(w http.ResponseWriter, r *http.Request) {
	b, contentType, err := c.Service.Export(r.Context(), r.URL.Query().Get("format"))
	if errors.Is(err, services.ErrUnknownFormat) {
		writeError(w, http.StatusBadRequest, msgUnknownFormat)
		return
	}
	if err != nil {
		c.writeServiceError(w, r, err, msgExportFailed)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Health handles GET /health.
func (c *TaskController) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// decode reads exactly one JSON value from the body into dst. An empty body
// decodes as {} so missing fields get their field-specific message; anything
// after the first value is rejected.
func (c *TaskController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON body")
		}
	}
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	c.Logger.Debug("invalid request payload", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusBadRequest, msgInvalidPayload)
	return false
}

// writeServiceError maps a service error to its status. Storage details are
// logged and replaced by fallback.
func (c *TaskController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var inputErr *services.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Msg)
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		c.Logger.Error(fallback, "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// numeroTarea parses the path key. A key that is not an integer can never
// match a stored row.
func numeroTarea(r *http.Request) (int64, bool) {
	n, err := strconv.ParseInt(mux.Vars(r)["numero_tarea"], 10, 64)
	return n, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
