package sqlcriteria

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// LowerFunc pasa un texto a minúsculas con las reglas Unicode de Go. El lower() nativo de
// SQLite y su LIKE solo pliegan ASCII.
const LowerFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(LowerFunc, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		}
		return args[0], nil
	})
}
