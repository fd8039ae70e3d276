package sqlstore

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// sqliteLowerFunc folds case with Go's Unicode tables. SQLite's built-in
// LOWER only maps ASCII, so "Ángela" would stay unchanged there.
const sqliteLowerFunc = "portal_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// lowerFunc names the SQL function that lowercases a text column the same
// way strings.ToLower lowercases search input.
func (db *DB) lowerFunc() string {
	if db.Dialect == DialectPostgres {
		return "LOWER"
	}
	return sqliteLowerFunc
}
