package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const userNotFound = "User not found"

// ProfileChanges lists the profile fields to overwrite. Nil fields are left unchanged.
type ProfileChanges struct {
	Name  *string
	Bio   *string
	Image *string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Counts(ctx context.Context, id string) (*models.UserCounts, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error, userNotFound)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, models.NewNotFoundError(userNotFound)
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err, userNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err, userNotFound)
	}
	return &user, nil
}

func (r *userRepository) Counts(ctx context.Context, id string) (*models.UserCounts, error) {
	var counts models.UserCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("author_id = ?", id).Count(&counts.Posts).Error; err != nil {
		return nil, translateError(err, userNotFound)
	}
	if err := db.Model(&models.Like{}).Where("user_id = ?", id).Count(&counts.Likes).Error; err != nil {
		return nil, translateError(err, userNotFound)
	}
	if err := db.Model(&models.Comment{}).Where("user_id = ?", id).Count(&counts.Comments).Error; err != nil {
		return nil, translateError(err, userNotFound)
	}
	return &counts, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*models.User, error) {
	if !validID(id) {
		return nil, models.NewNotFoundError(userNotFound)
	}

	updates := map[string]interface{}{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Bio != nil {
		updates["bio"] = *changes.Bio
	}
	if changes.Image != nil {
		updates["image"] = *changes.Image
	}

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.First(&user, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, userNotFound)
	}
	return &user, nil
}
