package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review score range is 1-10. One review per (author, title) pair.
type Review struct {
	ID       uuid.UUID `db:"id"`
	TitleID  uuid.UUID `db:"title_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Text     string    `db:"text"`
	Score    int       `db:"score"`
	PubDate  time.Time `db:"pub_date"`
}
