package query

// ---------- Tipos de ordenamiento / lectura ----------

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "id", "created_at"
	Desc  bool
}

// Direction devuelve "DESC" o "ASC" según el orden.
func (s Sort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}
