package services

import "errors"

var (
	// ErrInvalidInput marks a request missing a required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an operation on a numero_tarea that is not stored.
	ErrNotFound = errors.New("tarea no encontrada")
	// ErrStorage wraps any fault reported by the underlying store.
	ErrStorage = errors.New("storage failure")
)

// InputError carries the field-specific message returned to the client.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

const (
	msgCreateFieldsRequired = "La descripción y el conversationID son requeridos"
	msgDescriptionRequired  = "La descripción es requerida"
)
