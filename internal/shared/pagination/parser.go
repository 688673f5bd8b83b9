package pagination

import (
	"context"
	"fmt"
)

const (
	ArgFirst    = "first"
	ArgAfter    = "after"
	ArgLast     = "last"
	ArgBefore   = "before"
	ArgWhere    = "where"
	ArgSortedBy = "sortedBy"
)

// ---------------- Colaboradores por entidad ----------------

// WhereParser valida y normaliza el filtro específico de una entidad.
type WhereParser[In, W any] interface {
	ParseWhere(in In, path []string) Result[W]
}

// WhereParserFunc adapta una función a WhereParser.
type WhereParserFunc[In, W any] func(in In, path []string) Result[W]

func (f WhereParserFunc[In, W]) ParseWhere(in In, path []string) Result[W] {
	return f(in, path)
}

// SortedByParser valida y normaliza el orden específico de una entidad.
type SortedByParser[In, S any] interface {
	ParseSortedBy(in In, path []string) Result[S]
}

// SortedByParserFunc adapta una función a SortedByParser.
type SortedByParserFunc[In, S any] func(in In, path []string) Result[S]

func (f SortedByParserFunc[In, S]) ParseSortedBy(in In, path []string) Result[S] {
	return f(in, path)
}

// ---------------- Parser base ----------------

// Parse valida first/after/last/before contra maxLimit y resuelve el cursor con resolver.
// Todos los errores se acumulan: el cliente ve todos los problemas en una sola respuesta.
// El error devuelto sólo indica un fallo del resolver (p.ej. la base de datos no responde).
func Parse[C any](ctx context.Context, req Request, maxLimit int, resolver CursorResolver[C]) (Result[NormalizedArgs[C]], error) {
	var (
		args NormalizedArgs[C]
		errs []ArgumentError
	)

	switch {
	case req.First != nil:
		if req.Last != nil {
			errs = append(errs, NewArgumentError("last cannot be provided with first", ArgLast))
		}
		if req.Before != nil {
			errs = append(errs, NewArgumentError("before cannot be provided with first", ArgBefore))
		}
		errs = append(errs, checkCount(ArgFirst, *req.First, maxLimit)...)

		args.Direction = Forward
		args.Limit = *req.First + 1

		if req.After != nil {
			cursor, cursorErrs, err := resolveCursor(ctx, resolver, *req.After, ArgAfter)
			if err != nil {
				return Result[NormalizedArgs[C]]{}, err
			}
			args.Cursor = cursor
			errs = append(errs, cursorErrs...)
		}

	case req.Last != nil:
		if req.After != nil {
			errs = append(errs, NewArgumentError("after cannot be provided with last", ArgAfter))
		}
		errs = append(errs, checkCount(ArgLast, *req.Last, maxLimit)...)

		args.Direction = Backward
		args.Limit = *req.Last + 1

		if req.Before != nil {
			cursor, cursorErrs, err := resolveCursor(ctx, resolver, *req.Before, ArgBefore)
			if err != nil {
				return Result[NormalizedArgs[C]]{}, err
			}
			args.Cursor = cursor
			errs = append(errs, cursorErrs...)
		}

	default:
		errs = append(errs,
			NewArgumentError("first was not provided", ArgFirst),
			NewArgumentError("last was not provided", ArgLast),
		)
	}

	if len(errs) > 0 {
		return Fail[NormalizedArgs[C]](errs...), nil
	}
	return Ok(args), nil
}

func checkCount(name string, count, maxLimit int) []ArgumentError {
	if count < 0 {
		return []ArgumentError{NewArgumentError(fmt.Sprintf("%s must be a non-negative integer", name), name)}
	}
	if count > maxLimit {
		return []ArgumentError{NewArgumentError(fmt.Sprintf("%s cannot exceed %d", name, maxLimit), name)}
	}
	return nil
}

func resolveCursor[C any](ctx context.Context, resolver CursorResolver[C], value, name string) (*C, []ArgumentError, error) {
	path := []string{name}
	if resolver == nil {
		return nil, []ArgumentError{InvalidCursor(name, path)}, nil
	}

	res, err := resolver.Resolve(ctx, value, name, path)
	if err != nil {
		return nil, nil, err
	}
	if !res.IsSuccessful() {
		return nil, res.Errors(), nil
	}
	cursor := res.Value()
	return &cursor, nil, nil
}

// ---------------- Variantes extendidas ----------------

// ParseWithWhere ejecuta Parse y el validador de where; los errores de ambos se fusionan.
func ParseWithWhere[C, In, W any](
	ctx context.Context,
	req Request,
	maxLimit int,
	resolver CursorResolver[C],
	where In,
	whereParser WhereParser[In, W],
) (Result[ArgsWithWhere[C, W]], error) {
	base, err := Parse(ctx, req, maxLimit, resolver)
	if err != nil {
		return Result[ArgsWithWhere[C, W]]{}, err
	}
	w := whereParser.ParseWhere(where, []string{ArgWhere})

	if errs := merge(base.Errors(), w.Errors()); len(errs) > 0 {
		return Fail[ArgsWithWhere[C, W]](errs...), nil
	}
	return Ok(ArgsWithWhere[C, W]{NormalizedArgs: base.Value(), Where: w.Value()}), nil
}

// ParseWithSortedBy ejecuta Parse y el validador de sortedBy.
func ParseWithSortedBy[C, In, S any](
	ctx context.Context,
	req Request,
	maxLimit int,
	resolver CursorResolver[C],
	sortedBy In,
	sortedByParser SortedByParser[In, S],
) (Result[ArgsWithSortedBy[C, S]], error) {
	base, err := Parse(ctx, req, maxLimit, resolver)
	if err != nil {
		return Result[ArgsWithSortedBy[C, S]]{}, err
	}
	s := sortedByParser.ParseSortedBy(sortedBy, []string{ArgSortedBy})

	if errs := merge(base.Errors(), s.Errors()); len(errs) > 0 {
		return Fail[ArgsWithSortedBy[C, S]](errs...), nil
	}
	return Ok(ArgsWithSortedBy[C, S]{NormalizedArgs: base.Value(), SortedBy: s.Value()}), nil
}

// ParseWithSortedByAndWhere ejecuta Parse y ambos validadores (base ∪ where ∪ sortedBy).
func ParseWithSortedByAndWhere[C, SIn, S, WIn, W any](
	ctx context.Context,
	req Request,
	maxLimit int,
	resolver CursorResolver[C],
	sortedBy SIn,
	sortedByParser SortedByParser[SIn, S],
	where WIn,
	whereParser WhereParser[WIn, W],
) (Result[ArgsWithSortedByAndWhere[C, S, W]], error) {
	base, err := Parse(ctx, req, maxLimit, resolver)
	if err != nil {
		return Result[ArgsWithSortedByAndWhere[C, S, W]]{}, err
	}
	w := whereParser.ParseWhere(where, []string{ArgWhere})
	s := sortedByParser.ParseSortedBy(sortedBy, []string{ArgSortedBy})

	if errs := merge(base.Errors(), w.Errors(), s.Errors()); len(errs) > 0 {
		return Fail[ArgsWithSortedByAndWhere[C, S, W]](errs...), nil
	}
	return Ok(ArgsWithSortedByAndWhere[C, S, W]{
		NormalizedArgs: base.Value(),
		SortedBy:       s.Value(),
		Where:          w.Value(),
	}), nil
}

func merge(sets ...[]ArgumentError) []ArgumentError {
	var all []ArgumentError
	for _, s := range sets {
		all = append(all, s...)
	}
	return all
}
