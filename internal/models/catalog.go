package models

import "time"

// Mudra is one hand-gesture entry in the reference catalog.
type Mudra struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Meaning     string    `db:"meaning" json:"meaning"`
	Image       string    `db:"image" json:"image,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Theory is one written lesson in the theory catalog.
type Theory struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Content     string    `db:"content" json:"content"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
