package models

// Task is a single tarea as exposed over HTTP and held by the stores.
type Task struct {
	NumeroTarea    int64  `json:"numero_tarea" db:"numero_tarea"`
	Descripcion    string `json:"descripcion" db:"descripcion"`
	ConversationID string `json:"conversationID" db:"conversation_id"`
}

// CreateTaskRequest is the POST /tareas payload.
type CreateTaskRequest struct {
	Descripcion    string `json:"descripcion"`
	ConversationID string `json:"conversationID"`
}

// UpdateTaskRequest is the PUT /tareas/{numero_tarea} payload.
type UpdateTaskRequest struct {
	Descripcion string `json:"descripcion"`
}

// MessageResponse acknowledges a write. NumeroTarea is only set on create.
type MessageResponse struct {
	Mensaje     string `json:"mensaje"`
	NumeroTarea int64  `json:"numero_tarea,omitempty"`
}

// ErrorResponse is the body of every 4xx and 5xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
