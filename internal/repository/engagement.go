package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository defines likes and comments on posts visible to the actor.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, userID, postID string) (models.LikeResult, error)
	AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// ensureVisible fails with not-found unless postID exists and viewerID may read it.
func ensureVisible(tx *gorm.DB, postID, viewerID string) error {
	if !validID(postID) {
		return models.NewNotFoundError(postNotFound)
	}
	var count int64
	if err := tx.Model(&models.Post{}).
		Scopes(visibleTo(viewerID)).
		Where("posts.id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewNotFoundError(postNotFound)
	}
	return nil
}

// ToggleLike removes the (user, post) like if present, otherwise creates it.
// The composite primary key keeps concurrent toggles from producing duplicates.
func (r *engagementRepository) ToggleLike(ctx context.Context, userID, postID string) (models.LikeResult, error) {
	var result models.LikeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureVisible(tx, postID, userID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result = models.LikeResultUnliked
			return nil
		}

		like := models.Like{UserID: userID, PostID: postID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}
		result = models.LikeResultLiked
		return nil
	})
	if err != nil {
		return "", translateError(err, postNotFound)
	}
	return result, nil
}

func (r *engagementRepository) AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error) {
	comment := &models.Comment{Content: content, UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureVisible(tx, postID, userID); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		var author models.User
		if err := selectPublicUser(tx).First(&author, "id = ?", userID).Error; err != nil {
			return err
		}
		comment.User = &author
		return nil
	})
	if err != nil {
		return nil, translateError(err, postNotFound)
	}
	return comment, nil
}
