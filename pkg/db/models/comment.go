package models

import "time"

// Comment is a reply on a stable post. Authorship and placement live in the
// UserComment and StablePostComment join rows.
type Comment struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	CommentDate time.Time `gorm:"column:comment_date;not null"`
	Content     string    `gorm:"column:content;not null"`
}

type UserComment struct {
	ID        int `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int `gorm:"column:user_id;not null"`
	CommentID int `gorm:"column:comment_id;not null"`
}

type StablePostComment struct {
	ID           int `gorm:"column:id;primaryKey;autoIncrement"`
	StablePostID int `gorm:"column:stable_post_id;not null"`
	CommentID    int `gorm:"column:comment_id;not null"`
}
