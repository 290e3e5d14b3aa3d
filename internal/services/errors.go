package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/bizops-api/internal/database"
	"gorm.io/gorm"
)

var (
	ErrHasRelatedRecords = errors.New("cannot delete, has related records")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
)

// findError translates a repository lookup failure.
func findError(err error, notFound error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// writeError translates a failed insert or update.
func writeError(err error, what string) error {
	if database.IsForeignKeyViolation(err) {
		return ErrInvalidReference
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}

// deleteError translates a failed delete; rows still referenced elsewhere
// surface as ErrHasRelatedRecords.
func deleteError(err error, what string) error {
	if database.IsForeignKeyViolation(err) {
		return ErrHasRelatedRecords
	}
	return fmt.Errorf("failed to delete %s: %w", what, err)
}

// parseDate reads an optional YYYY-MM-DD value; an empty string clears the date.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// optionalID maps 0 to "no reference".
func optionalID(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}
