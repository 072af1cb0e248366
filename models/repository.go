package models

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors shared by the repositories. Handlers translate these into
// HTTP status codes; duplicates detected by the database's unique constraints
// map to the same errors as the advisory pre-checks.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already taken")
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressExists   = errors.New("address already exists for user")
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrImageNotFound   = errors.New("product image not found")
)

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, optionally scoped to a constraint whose name contains hint.
func isUniqueViolation(err error, hint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	if hint == "" {
		return true
	}
	return contains(pgErr.ConstraintName, hint)
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// AutoMigrate creates or updates the schema for every entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Address{},
		&Product{},
		&ProductImage{},
		&Category{},
	)
}
