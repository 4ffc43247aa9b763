package database

// Dialect identifies the SQL flavour behind a database/sql driver name.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
	Unknown  Dialect = ""
)

// DialectOf maps a registered driver name to its dialect. Drivers outside
// the supported set map to Unknown.
func DialectOf(driver string) Dialect {
	switch driver {
	case "postgres", "pgx", "pgx/v5":
		return Postgres
	case "mysql":
		return MySQL
	case "sqlite", "sqlite3":
		return SQLite
	default:
		return Unknown
	}
}

// gooseDialect is the dialect name goose expects.
func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return string(d)
}
