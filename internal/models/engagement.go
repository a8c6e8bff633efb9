package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records that a user liked a post. The composite key allows at most one
// like per (user, post).
type Like struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"userId"`
	PostID    string    `gorm:"type:uuid;primaryKey;index" json:"postId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "likes"
}

// Comment is a user's comment on a post.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"postId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LikeResult is the outcome of a like toggle.
type LikeResult string

const (
	// LikeResultLiked means the like was created.
	LikeResultLiked LikeResult = "liked"
	// LikeResultUnliked means an existing like was removed.
	LikeResultUnliked LikeResult = "unliked"
)

// Message returns the user-facing confirmation for the toggle.
func (r LikeResult) Message() string {
	if r == LikeResultUnliked {
		return "Post unliked"
	}
	return "Post liked"
}
