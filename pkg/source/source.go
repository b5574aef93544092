// Package source introspects live databases into [erd.Schema] values.
//
// Supported drivers are "sqlite" (modernc.org/sqlite), "postgres"
// (github.com/lib/pq) and "mysql" (github.com/go-sql-driver/mysql). Each table
// becomes an entity named after the singular, camelized table name
// ("order_items" becomes "OrderItem"); each foreign key becomes a
// relationship labeled with the referencing column.
//
//	l, err := source.Open("sqlite", "file:app.db")
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//	schema, err := l.Load(ctx, "app")
package source

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/go-openapi/inflect"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/erdviz/pkg/erd"
	"github.com/matzehuels/erdviz/pkg/errors"
)

// Driver names accepted by [Open] and [New].
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Drivers lists the supported driver names.
var Drivers = []string{DriverSQLite, DriverPostgres, DriverMySQL}

// Loader reads table metadata from a database.
type Loader struct {
	// Schema is the database schema to read. Empty means the driver default
	// ("public" for postgres, the current database for mysql).
	Schema string
	Logger *log.Logger

	db      *sql.DB
	dialect dialect
	owned   bool
}

// Open connects to a database and returns a Loader that closes the
// connection on Close.
func Open(driver, dsn string) (*Loader, error) {
	d, name, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s database", driver)
	}
	return &Loader{db: db, dialect: d, owned: true}, nil
}

// New wraps an existing connection. Close does not close db.
func New(db *sql.DB, driver string) (*Loader, error) {
	d, _, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	return &Loader{db: db, dialect: d}, nil
}

func lookupDialect(driver string) (dialect, string, error) {
	switch driver {
	case DriverSQLite, "sqlite3":
		return sqliteDialect{}, DriverSQLite, nil
	case DriverPostgres, "postgresql":
		return postgresDialect{}, DriverPostgres, nil
	case DriverMySQL:
		return mysqlDialect{}, DriverMySQL, nil
	default:
		return nil, "", errors.New(errors.ErrCodeUnsupported, "unsupported database driver %q", driver)
	}
}

// Close releases the connection if the Loader opened it.
func (l *Loader) Close() error {
	if l.owned {
		return l.db.Close()
	}
	return nil
}

// Load reads every table in the schema and returns a validated erd.Schema.
// Foreign keys pointing outside the loaded tables are skipped.
func (l *Loader) Load(ctx context.Context, name string) (*erd.Schema, error) {
	schema := l.Schema
	if schema == "" {
		if _, ok := l.dialect.(postgresDialect); ok {
			schema = "public"
		}
	}

	tables, err := l.dialect.tables(ctx, l.db, schema)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list tables")
	}

	s := erd.NewSchema(name)
	entities := make(map[string]string, len(tables))
	for _, table := range tables {
		entities[table] = EntityName(table)
	}

	for _, table := range tables {
		cols, err := l.dialect.columns(ctx, l.db, schema, table)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read columns of %s", table)
		}
		e := s.AddEntity(entities[table], table)
		for _, c := range cols {
			e.AddAttribute(erd.Attribute{
				Name:       c.name,
				Type:       c.dataType,
				Nullable:   c.nullable,
				PrimaryKey: c.primaryKey,
			})
		}

		fks, err := l.dialect.foreignKeys(ctx, l.db, schema, table)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read foreign keys of %s", table)
		}
		for _, fk := range fks {
			to, ok := entities[fk.refTable]
			if !ok {
				l.logger().Debug("skipping foreign key", "table", table, "column", fk.column, "references", fk.refTable)
				continue
			}
			s.AddRelationship(erd.Relationship{From: e.Name, To: to, Label: fk.column})
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	l.logger().Debug("loaded schema", "tables", len(tables), "relationships", len(s.Relationships))
	return s, nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// EntityName converts a table name into an entity name.
func EntityName(table string) string {
	return inflect.Camelize(inflect.Singularize(table))
}
