// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered author.
// Email and Bio are omitted from JSON when empty so that the same struct can be
// embedded as the public {id, name, image} author summary.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Name      *string   `gorm:"size:255" json:"name"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	Image     *string   `gorm:"type:text" json:"image"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserCounts holds the derived activity counters of a user.
type UserCounts struct {
	Posts    int64 `json:"posts"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Profile is the authenticated user's own view of their account.
type Profile struct {
	ID     string      `json:"id"`
	Name   *string     `json:"name"`
	Email  string      `json:"email"`
	Bio    *string     `json:"bio"`
	Image  *string     `json:"image"`
	Counts *UserCounts `json:"_count,omitempty"`
}

// NewProfile builds a Profile from a stored user.
func NewProfile(u *User, counts *UserCounts) *Profile {
	return &Profile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Bio:    u.Bio,
		Image:  u.Image,
		Counts: counts,
	}
}
