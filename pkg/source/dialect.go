package source

import (
	"context"
	"database/sql"
	"strings"
)

type column struct {
	name       string
	dataType   string
	nullable   bool
	primaryKey bool
}

type foreignKey struct {
	column   string
	refTable string
}

type dialect interface {
	tables(ctx context.Context, db *sql.DB, schema string) ([]string, error)
	columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error)
	foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error)
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func queryForeignKeys(ctx context.Context, db *sql.DB, query string, args ...any) ([]foreignKey, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []foreignKey
	for rows.Next() {
		var fk foreignKey
		if err := rows.Scan(&fk.column, &fk.refTable); err != nil {
			return nil, err
		}
		out = append(out, fk)
	}
	return out, rows.Err()
}

// =============================================================================
// SQLite
// =============================================================================

type sqliteDialect struct{}

func (sqliteDialect) tables(ctx context.Context, db *sql.DB, _ string) ([]string, error) {
	return queryStrings(ctx, db, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
}

func (sqliteDialect) columns(ctx context.Context, db *sql.DB, _, table string) ([]column, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, type, "notnull", pk FROM pragma_table_info(?)
		ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []column
	for rows.Next() {
		var (
			c       column
			notNull int
			pk      int
		)
		if err := rows.Scan(&c.name, &c.dataType, &notNull, &pk); err != nil {
			return nil, err
		}
		c.dataType = strings.ToLower(c.dataType)
		c.primaryKey = pk > 0
		c.nullable = notNull == 0 && !c.primaryKey
		out = append(out, c)
	}
	return out, rows.Err()
}

func (sqliteDialect) foreignKeys(ctx context.Context, db *sql.DB, _, table string) ([]foreignKey, error) {
	return queryForeignKeys(ctx, db, `
		SELECT "from", "table" FROM pragma_foreign_key_list(?)
		ORDER BY id, seq`, table)
}

// =============================================================================
// PostgreSQL
// =============================================================================

type postgresDialect struct{}

func (postgresDialect) tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	return queryStrings(ctx, db, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
}

func (postgresDialect) columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error) {
	pks, err := queryStrings(ctx, db, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1 AND tc.table_name = $2`,
		schema, table)
	if err != nil {
		return nil, err
	}
	isPK := make(map[string]bool, len(pks))
	for _, pk := range pks {
		isPK[pk] = true
	}

	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []column
	for rows.Next() {
		var (
			c        column
			nullable string
		)
		if err := rows.Scan(&c.name, &c.dataType, &nullable); err != nil {
			return nil, err
		}
		c.nullable = nullable == "YES"
		c.primaryKey = isPK[c.name]
		out = append(out, c)
	}
	return out, rows.Err()
}

func (postgresDialect) foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error) {
	return queryForeignKeys(ctx, db, `
		SELECT kcu.column_name, ccu.table_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1 AND tc.table_name = $2
		ORDER BY kcu.ordinal_position`, schema, table)
}

// =============================================================================
// MySQL
// =============================================================================

// mysqlDialect reads the connection's current database when schema is empty.
type mysqlDialect struct{}

func (mysqlDialect) tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	return queryStrings(ctx, db, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
}

func (mysqlDialect) columns(ctx context.Context, db *sql.DB, schema, table string) ([]column, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_key
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []column
	for rows.Next() {
		var (
			c        column
			nullable string
			key      string
		)
		if err := rows.Scan(&c.name, &c.dataType, &nullable, &key); err != nil {
			return nil, err
		}
		c.nullable = nullable == "YES"
		c.primaryKey = key == "PRI"
		out = append(out, c)
	}
	return out, rows.Err()
}

func (mysqlDialect) foreignKeys(ctx context.Context, db *sql.DB, schema, table string) ([]foreignKey, error) {
	return queryForeignKeys(ctx, db, `
		SELECT column_name, referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position`, schema, table)
}
