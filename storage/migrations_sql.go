package storage

// Version 0 holds the bootstrap statement that creates the version table.
var sqliteMigrations = map[int][]string{
	0: {
		`CREATE TABLE IF NOT EXISTS odm_schema_version (num INTEGER NOT NULL)`,
	},
	1: {
		`CREATE TABLE IF NOT EXISTS odm_operation_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			database_name TEXT NOT NULL,
			collection_name TEXT NOT NULL DEFAULT '',
			operation TEXT NOT NULL,
			payload TEXT NOT NULL,
			date_created DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_odm_operation_log_date_created ON odm_operation_log (date_created)`,
		`CREATE INDEX IF NOT EXISTS idx_odm_operation_log_operation ON odm_operation_log (database_name, collection_name, operation)`,
	},
}

var postgresMigrations = map[int][]string{
	0: {
		`CREATE TABLE IF NOT EXISTS odm_schema_version (num INTEGER NOT NULL)`,
	},
	1: {
		`CREATE TABLE IF NOT EXISTS odm_operation_log (
			id BIGSERIAL PRIMARY KEY,
			uuid UUID NOT NULL UNIQUE,
			database_name TEXT NOT NULL,
			collection_name TEXT NOT NULL DEFAULT '',
			operation TEXT NOT NULL,
			payload JSONB NOT NULL,
			date_created TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_odm_operation_log_date_created ON odm_operation_log (date_created)`,
		`CREATE INDEX IF NOT EXISTS idx_odm_operation_log_operation ON odm_operation_log (database_name, collection_name, operation)`,
	},
}
