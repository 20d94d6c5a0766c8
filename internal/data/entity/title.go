package entity

import (
	"github.com/google/uuid"
)

// Title is a reviewable media work. Rating is not a stored column: it is the
// average review score computed by the repository at query time, nil when the
// title has no reviews yet.
type Title struct {
	Base
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description *string    `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"`
	Rating      *float64
}
