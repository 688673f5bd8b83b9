package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/relaypage/internal/shared/pagination"
)

// ParsePageRequest lee first/after/last/before de la query string.
// Solo comprueba que first y last sean enteros; el resto lo valida el servicio. Un valor no
// entero cuenta como presente (con 0) para que el servicio siga validando los demás argumentos;
// su error se devuelve aparte y se combina con ArgumentErrorsOf.
func ParsePageRequest(c *gin.Context) (pagination.Request, pagination.ArgumentErrors) {
	var (
		req  pagination.Request
		errs pagination.ArgumentErrors
	)

	for _, arg := range []struct {
		name string
		dst  **int
	}{{pagination.ArgFirst, &req.First}, {pagination.ArgLast, &req.Last}} {
		raw, ok := c.GetQuery(arg.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, pagination.NewArgumentError(fmt.Sprintf("%s must be an integer", arg.name), arg.name))
			v = 0
		}
		*arg.dst = &v
	}

	if after, ok := c.GetQuery(pagination.ArgAfter); ok {
		req.After = &after
	}
	if before, ok := c.GetQuery(pagination.ArgBefore); ok {
		req.Before = &before
	}

	return req, errs
}

// OptionalQuery devuelve nil si el parámetro no viene en la query string.
func OptionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

// ArgumentErrorsOf junta los errores de decodificación con los ArgumentErrors que devuelva el
// servicio. ok es false si no hay errores de argumentos o si err es otro tipo de fallo.
func ArgumentErrorsOf(decodeErrs pagination.ArgumentErrors, err error) (pagination.ArgumentErrors, bool) {
	var argErrs pagination.ArgumentErrors
	isArg := errors.As(err, &argErrs)
	if err != nil && !isArg {
		return nil, false
	}
	if len(decodeErrs) == 0 && !isArg {
		return nil, false
	}

	all := make(pagination.ArgumentErrors, 0, len(decodeErrs)+len(argErrs))
	all = append(all, decodeErrs...)
	return append(all, argErrs...), true
}

// QueryArgs traduce la ruta de un error (unida con ".") al parámetro de la query string
// que lo originó, p.ej. "where.namePrefix" -> "namePrefix".
type QueryArgs map[string]string

// Rename devuelve una copia de errs con las rutas expresadas como parámetros de la query.
func (q QueryArgs) Rename(errs pagination.ArgumentErrors) pagination.ArgumentErrors {
	out := make(pagination.ArgumentErrors, len(errs))
	for i, e := range errs {
		out[i] = e
		if name, ok := q[strings.Join(e.Path, ".")]; ok {
			out[i].Path = []string{name}
		}
	}
	return out
}
