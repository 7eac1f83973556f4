package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
	dialectMongo    = "mongodb"
)

type SQLAdapter struct {
	DB      *sql.DB
	dialect string
}

func (a *SQLAdapter) Dialect() string { return a.dialect }

func isSQLDB(conn any) bool {
	_, ok := conn.(*sql.DB)
	return ok
}

func newSQLAdapter(conn any) (Adapter, error) {
	db := conn.(*sql.DB)
	return &SQLAdapter{DB: db, dialect: sqlDialect(db)}, nil
}

// sqlDialect guesses the dialect from the driver type, defaulting to postgres.
func sqlDialect(db *sql.DB) string {
	name := strings.ToLower(fmt.Sprintf("%T", db.Driver()))
	if strings.Contains(name, "sqlite") {
		return dialectSQLite
	}
	return dialectPostgres
}
