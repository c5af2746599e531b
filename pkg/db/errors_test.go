package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPostgres(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"}

	if !IsUniqueViolation(pgxErr, "") {
		t.Fatal("expected pgconn 23505 to match")
	}
	if !IsUniqueViolation(pgxErr, "categories_name_key") {
		t.Fatal("expected matching constraint name to match")
	}
	if IsUniqueViolation(pgxErr, "users_email_key") {
		t.Fatal("expected different constraint name not to match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("expected foreign key violation not to match")
	}

	wrapped := fmt.Errorf("create category: %w", pgxErr)
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected wrapped pgconn error to match")
	}

	pqErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	if !IsUniqueViolation(pqErr, "users_email_key") {
		t.Fatal("expected pq 23505 to match")
	}
	if IsUniqueViolation(&pq.Error{Code: "40001"}, "") {
		t.Fatal("expected pq serialization failure not to match")
	}
}

func TestIsUniqueViolationSQLiteFallback(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: categories.name")
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected sqlite message to match")
	}
	if !IsUniqueViolation(err, "categories.name") {
		t.Fatal("expected constraint substring to match")
	}
	if IsUniqueViolation(errors.New("no such table: categories"), "") {
		t.Fatal("expected unrelated error not to match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("expected nil error not to match")
	}
}
