package pagination

import (
	"fmt"
	"strings"
)

// ArgumentError describe un argumento inválido y la ruta donde se encontró.
type ArgumentError struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

func (e ArgumentError) Error() string {
	return e.Message
}

// NewArgumentError construye un ArgumentError para el argumento name.
func NewArgumentError(message string, path ...string) ArgumentError {
	return ArgumentError{Message: message, Path: path}
}

// ArgumentErrors agrupa todos los errores de una misma validación.
// Se devuelve como error desde los servicios para que los handlers lo detecten con errors.As.
type ArgumentErrors []ArgumentError

func (e ArgumentErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, fmt.Sprintf("%s (%s)", err.Message, strings.Join(err.Path, ".")))
	}
	return "invalid arguments: " + strings.Join(msgs, "; ")
}

// ---------------- Result ----------------

// Result es el resultado de una validación: un valor o una lista de errores, nunca ambos.
type Result[T any] struct {
	value T
	errs  []ArgumentError
}

// Ok envuelve un valor válido.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail envuelve uno o más errores. Sin errores se trata como fallo genérico.
func Fail[T any](errs ...ArgumentError) Result[T] {
	if len(errs) == 0 {
		errs = []ArgumentError{NewArgumentError("invalid argument")}
	}
	return Result[T]{errs: errs}
}

func (r Result[T]) IsSuccessful() bool {
	return len(r.errs) == 0
}

// Value devuelve el valor; sólo tiene sentido si IsSuccessful.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Errors() []ArgumentError {
	return r.errs
}

// Err devuelve nil en caso de éxito o ArgumentErrors en caso de fallo.
func (r Result[T]) Err() error {
	if r.IsSuccessful() {
		return nil
	}
	return ArgumentErrors(r.errs)
}
