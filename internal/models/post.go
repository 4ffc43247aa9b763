package models

import "time"

// Post represents a post owned by a user
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PostFilter narrows a post listing to one owner
type PostFilter struct {
	UserID int64
	Search string
	Oldest bool // ascending by creation time when set
}

// PostUpdate holds the optional fields of a partial update
type PostUpdate struct {
	Title *string
	Body  *string
}
