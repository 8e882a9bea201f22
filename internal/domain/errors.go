package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrPayloadTooLarge = errors.New("carga demasiado grande")
	ErrStorage         = errors.New("error de almacenamiento")
)

// ValidationError indica qué campo requerido falta o es inválido. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Límites de subida.
const (
	LimitFileSize  = "file_size"
	LimitFileCount = "file_count"
)

// LimitError indica qué límite de subida se superó. Unwrap devuelve ErrPayloadTooLarge.
type LimitError struct {
	Limit string // LimitFileSize o LimitFileCount
	Max   int64  // bytes por archivo o cantidad de archivos
	File  string // archivo que superó el límite (solo LimitFileSize)
}

func (e *LimitError) Error() string {
	if e.Limit == LimitFileCount {
		return fmt.Sprintf("Demasiados archivos. Límite: %d archivos", e.Max)
	}
	mb := e.Max / (1024 * 1024)
	if e.File != "" {
		return fmt.Sprintf("Archivo demasiado grande (%s). Límite: %dMB", e.File, mb)
	}
	return fmt.Sprintf("Archivo demasiado grande. Límite: %dMB", mb)
}

func (e *LimitError) Unwrap() error { return ErrPayloadTooLarge }
