package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type SQLDriver struct {
	a       *SQLAdapter
	dialect string
}

func newSQLDriver(dialect string) driverFactory {
	return func(adapter Adapter) (Driver, error) {
		a, ok := adapter.(*SQLAdapter)
		if !ok {
			return nil, fmt.Errorf("sql driver expects *SQLAdapter, got %T", adapter)
		}
		return &SQLDriver{a: a, dialect: dialect}, nil
	}
}

func (d *SQLDriver) Dialect() string { return d.dialect }

func (d *SQLDriver) Events() EventRepo {
	return &sqlEventRepo{db: d.db(), dialect: d.dialect}
}

func (d *SQLDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.DB == nil {
		return nil
	}

	var migrations map[int][]string
	switch d.dialect {
	case dialectSQLite:
		migrations = sqliteMigrations
	case dialectPostgres:
		migrations = postgresMigrations
	default:
		return fmt.Errorf("unsupported SQL dialect: %s", d.dialect)
	}

	// The version table must exist before it can be read.
	if _, err := d.db().ExecContext(ctx, migrations[0][0]); err != nil {
		return fmt.Errorf("create schema version table: %w", err)
	}

	currentVersion := d.getSchemaVersion(ctx)
	maxVersion := latestVersion(migrations)
	if currentVersion >= maxVersion {
		return nil
	}

	tx, err := d.db().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for v := currentVersion + 1; v <= maxVersion; v++ {
		ops, ok := migrations[v]
		if !ok {
			continue
		}
		for _, op := range ops {
			if _, err := tx.ExecContext(ctx, op); err != nil {
				return fmt.Errorf("migration %d failed: %w", v, err)
			}
		}

		var updateSQL string
		if currentVersion == 0 {
			updateSQL = "INSERT INTO odm_schema_version (num) VALUES (" + placeholder(d.dialect, 1) + ")"
		} else {
			updateSQL = "UPDATE odm_schema_version SET num = " + placeholder(d.dialect, 1)
		}
		if _, err := tx.ExecContext(ctx, updateSQL, v); err != nil {
			return err
		}
		currentVersion = v
	}

	return tx.Commit()
}

func (d *SQLDriver) getSchemaVersion(ctx context.Context) int {
	var version sql.NullInt64
	err := d.db().QueryRowContext(ctx, "SELECT num FROM odm_schema_version LIMIT 1").Scan(&version)
	if err != nil || !version.Valid {
		return 0
	}
	return int(version.Int64)
}

func (d *SQLDriver) db() *sql.DB { return d.a.DB }

func placeholder(dialect string, n int) string {
	if dialect == dialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func latestVersion[T any](migrations map[int][]T) int {
	latest := 0
	for v := range migrations {
		if v > latest {
			latest = v
		}
	}
	return latest
}
