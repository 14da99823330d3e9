package posts

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
)

// StablePostDTO is a post with its author's display fields.
type StablePostDTO struct {
	ID             int       `json:"id"`
	StableID       int       `json:"stableId"`
	UserID         int       `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Date           time.Time `json:"date"`
	IsPinned       bool      `json:"isPinned"`
}

// CreatePostInput captures the fields for a new post.
type CreatePostInput struct {
	StableID int    `json:"stableId" validate:"required,gt=0"`
	UserID   int    `json:"userId" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=100"`
	Content  string `json:"content" validate:"required,max=4000"`
	IsPinned bool   `json:"isPinned"`
}

// UpdatePostInput captures the mutable post fields.
type UpdatePostInput struct {
	ID       int    `json:"id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=100"`
	Content  string `json:"content" validate:"required,max=4000"`
	IsPinned bool   `json:"isPinned"`
}

type postRow struct {
	models.StablePost
	FirstName      string
	LastName       string
	ProfilePicture *string
}

func fromRow(row postRow) StablePostDTO {
	return StablePostDTO{
		ID:             row.ID,
		StableID:       row.StableID,
		UserID:         row.UserID,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		ProfilePicture: row.ProfilePicture,
		Title:          row.Title,
		Content:        row.Content,
		Date:           row.Date,
		IsPinned:       row.IsPinned,
	}
}
