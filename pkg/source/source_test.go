package source

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/matzehuels/erdviz/pkg/errors"
)

func TestEntityName(t *testing.T) {
	tests := map[string]string{
		"accounts":    "Account",
		"order_items": "OrderItem",
		"invoice":     "Invoice",
	}
	for table, want := range tests {
		if got := EntityName(table); got != want {
			t.Errorf("EntityName(%q) = %q, want %q", table, got, want)
		}
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open error = %v, want UNSUPPORTED", err)
	}
	if _, err := New(nil, "mssql"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("New error = %v, want UNSUPPORTED", err)
	}
}

func TestLoadSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE accounts (id INTEGER PRIMARY KEY, email TEXT)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			note TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatal(err)
		}
	}

	l, err := New(db, DriverSQLite)
	if err != nil {
		t.Fatal(err)
	}
	s, err := l.Load(ctx, "shop")
	if err != nil {
		t.Fatal(err)
	}

	if len(s.Entities) != 2 || s.Entities[0].Name != "Account" || s.Entities[1].Name != "Order" {
		t.Fatalf("entities = %+v", s.Entities)
	}
	order := s.Entities[1]
	if order.Table != "orders" || len(order.Attributes) != 3 {
		t.Fatalf("orders = %+v", order)
	}
	id, _ := order.Attribute("id")
	if !id.PrimaryKey || id.Nullable || id.Type != "integer" {
		t.Errorf("id = %+v", id)
	}
	acct, _ := order.Attribute("account_id")
	if acct.Nullable {
		t.Error("account_id is NOT NULL")
	}
	note, _ := order.Attribute("note")
	if !note.Nullable {
		t.Error("note should be nullable")
	}

	if len(s.Relationships) != 1 {
		t.Fatalf("relationships = %+v", s.Relationships)
	}
	if r := s.Relationships[0]; r.From != "Order" || r.To != "Account" || r.Label != "account_id" {
		t.Errorf("relationship = %+v", r)
	}
}

func TestLoadPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("accounts").AddRow("orders"))

	mock.ExpectQuery("PRIMARY KEY").WithArgs("public", "accounts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("public", "accounts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "bigint", "NO").
			AddRow("email", "character varying", "YES"))
	mock.ExpectQuery("FOREIGN KEY").WithArgs("public", "accounts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "table_name"}))

	mock.ExpectQuery("PRIMARY KEY").WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "bigint", "NO").
			AddRow("account_id", "bigint", "NO").
			AddRow("coupon_id", "bigint", "YES"))
	mock.ExpectQuery("FOREIGN KEY").WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "table_name"}).
			AddRow("account_id", "accounts").
			AddRow("coupon_id", "coupons"))

	l, err := New(db, DriverPostgres)
	if err != nil {
		t.Fatal(err)
	}
	s, err := l.Load(context.Background(), "shop")
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	acct, ok := s.Entity("Account")
	if !ok {
		t.Fatal("Account entity missing")
	}
	if id, _ := acct.Attribute("id"); !id.PrimaryKey {
		t.Error("accounts.id should be a primary key")
	}
	if email, _ := acct.Attribute("email"); !email.Nullable || email.Type != "character varying" {
		t.Errorf("email = %+v", email)
	}
	// coupons is not a loaded table, so only one relationship survives.
	if len(s.Relationships) != 1 || s.Relationships[0].To != "Account" {
		t.Errorf("relationships = %+v", s.Relationships)
	}
}

func TestLoadMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_key"}).
			AddRow("id", "int", "NO", "PRI").
			AddRow("manager_id", "int", "YES", "MUL"))
	mock.ExpectQuery("FROM information_schema.key_column_usage").WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "referenced_table_name"}).
			AddRow("manager_id", "users"))

	l, err := New(db, DriverMySQL)
	if err != nil {
		t.Fatal(err)
	}
	l.Schema = "shop"
	s, err := l.Load(context.Background(), "shop")
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	user, ok := s.Entity("User")
	if !ok {
		t.Fatal("User entity missing")
	}
	if id, _ := user.Attribute("id"); !id.PrimaryKey {
		t.Error("users.id should be a primary key")
	}
	if len(s.Relationships) != 1 || s.Relationships[0].From != "User" || s.Relationships[0].To != "User" {
		t.Errorf("self relationship = %+v", s.Relationships)
	}
}

func TestLoadQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM information_schema.tables").WillReturnError(sql.ErrConnDone)

	l, _ := New(db, DriverPostgres)
	if _, err := l.Load(context.Background(), "shop"); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Load error = %v, want INTERNAL_ERROR", err)
	}
}
