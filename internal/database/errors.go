package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation    = "23503"
	mysqlRowIsReferenced     = 1451
	mysqlRowIsReferencedAlt  = 1217
	mysqlNoReferencedRow     = 1452
	sqliteForeignKeyFailText = "FOREIGN KEY constraint failed"
)

// IsForeignKeyViolation reports whether err was caused by a foreign key constraint,
// regardless of which driver produced it.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlRowIsReferenced, mysqlRowIsReferencedAlt, mysqlNoReferencedRow:
			return true
		}
		return false
	}

	return strings.Contains(err.Error(), sqliteForeignKeyFailText)
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
