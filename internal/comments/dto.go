package comments

import "time"

// CommentDTO is a comment with its author's display fields.
type CommentDTO struct {
	ID             int       `json:"id"`
	CommentDate    time.Time `json:"commentDate"`
	Content        string    `json:"content"`
	UserID         int       `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

// CreateCommentInput is the body of a new comment.
type CreateCommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type commentRow struct {
	ID             int
	CommentDate    time.Time
	Content        string
	UserID         int
	FirstName      string
	LastName       string
	ProfilePicture *string
}

func fromRows(rows []commentRow) []CommentDTO {
	out := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CommentDTO(row))
	}
	return out
}
