package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a blog post. Private posts are readable only by their author.
type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPrivate bool      `gorm:"not null;default:false" json:"isPrivate"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Images    []Image   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"images"`
	Tags      []Tag     `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Likes     []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"-"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int64       `gorm:"->;-:migration" json:"-"`
	Counts        *PostCounts `gorm:"-" json:"_count,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// PostCounts is the engagement summary attached to listed posts.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Image is an image URL attached to a post. Order follows ID.
type Image struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	URL    string `gorm:"type:text;not null" json:"url"`
	PostID string `gorm:"type:uuid;not null;index" json:"postId"`
}

// TableName specifies the table name for GORM.
func (Image) TableName() string {
	return "images"
}

// Tag is a globally unique label shared between posts.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for GORM.
func (Tag) TableName() string {
	return "tags"
}
