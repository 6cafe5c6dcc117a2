package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a guarded update matched no row because
	// the row changed underneath it.
	ErrConflict = errors.New("conflict")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// updateAll writes every column of value, zero values included, to the row
// matching its primary key. Unlike Save it never inserts.
func updateAll(db *gorm.DB, value interface{}, omit ...string) (int64, error) {
	res := db.Model(value).Select("*").Omit(append([]string{"CreatedAt"}, omit...)...).Updates(value)
	return res.RowsAffected, res.Error
}
