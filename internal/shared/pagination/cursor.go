package pagination

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrMalformedCursor = errors.New("malformed cursor")

// ---------------- Codec ----------------

// Codec traduce entre el identificador ordenable de una entidad y el cursor opaco.
// Decode(Encode(id)) debe devolver id.
type Codec interface {
	Encode(id string) string
	Decode(cursor string) (string, error)
}

// IdentityCodec usa el propio identificador como cursor.
type IdentityCodec struct{}

func (IdentityCodec) Encode(id string) string { return id }

func (IdentityCodec) Decode(cursor string) (string, error) {
	if cursor == "" {
		return "", ErrMalformedCursor
	}
	return cursor, nil
}

// OpaqueCodec codifica el identificador en base64 URL sin relleno.
type OpaqueCodec struct{}

func (OpaqueCodec) Encode(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func (OpaqueCodec) Decode(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || len(b) == 0 {
		return "", ErrMalformedCursor
	}
	return string(b), nil
}

// ---------------- Resolver ----------------

// CursorResolver valida un cursor recibido (after/before) dentro del ámbito de la entidad.
// Un cursor inexistente es un fallo en Result; error queda para fallos de infraestructura.
type CursorResolver[C any] interface {
	Resolve(ctx context.Context, value, name string, path []string) (Result[C], error)
}

// CursorResolverFunc adapta una función a CursorResolver.
type CursorResolverFunc[C any] func(ctx context.Context, value, name string, path []string) (Result[C], error)

func (f CursorResolverFunc[C]) Resolve(ctx context.Context, value, name string, path []string) (Result[C], error) {
	return f(ctx, value, name, path)
}

// InvalidCursor es el error estándar para un cursor que no resuelve a ninguna entidad.
func InvalidCursor(name string, path []string) ArgumentError {
	return ArgumentError{
		Message: fmt.Sprintf("Argument %s is an invalid cursor.", name),
		Path:    path,
	}
}

// ExistsFunc indica si existe, dentro del ámbito ya fijado, la entidad con ese identificador.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// ExistenceResolver decodifica el cursor con codec y comprueba la existencia del identificador.
func ExistenceResolver(codec Codec, exists ExistsFunc) CursorResolver[string] {
	return CursorResolverFunc[string](func(ctx context.Context, value, name string, path []string) (Result[string], error) {
		id, err := codec.Decode(value)
		if err != nil {
			return Fail[string](InvalidCursor(name, path)), nil
		}

		ok, err := exists(ctx, id)
		if err != nil {
			return Result[string]{}, fmt.Errorf("resolve cursor %s: %w", name, err)
		}
		if !ok {
			return Fail[string](InvalidCursor(name, path)), nil
		}
		return Ok(id), nil
	})
}
