// Package pagination implementa conexiones paginadas por cursor al estilo Relay.
//
// El flujo de una consulta paginada es siempre el mismo:
//
//	args, err := pagination.Parse(ctx, req, cfg.MaxPageLimit, resolver)
//	// args.IsSuccessful() == false -> args.Errors() tiene TODOS los problemas
//	scan := pagination.NewScan(args.Value(), entityCriteria)
//	conn, err := pagination.Paginate(ctx, fetcher, scan, args.Value())
//
// Parse valida first/after/last/before y devuelve NormalizedArgs con el límite
// sobredimensionado (+1). NewScan deriva el filtro por identificador y el orden.
// Paginate lanza en paralelo la lectura y el conteo y Assemble recorta la fila
// centinela, invierte las páginas hacia atrás y calcula PageInfo.
//
// Los identificadores deben ser ordenables lexicográficamente (UUIDv7), de
// forma que "más nuevo" equivalga a "mayor".
package pagination
