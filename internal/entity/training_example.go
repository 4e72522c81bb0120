package entity

import "time"

type TrainingExample struct {
	ID        string    `db:"id"`
	Text      string    `db:"text"`
	Category  string    `db:"category"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}
