package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postNotFound = "Post not found"

// PostChanges lists the fields of an update. Nil fields are left unchanged;
// non-nil ImageURLs or Tags replace the whole set, even when empty.
type PostChanges struct {
	Title     *string
	Content   *string
	IsPrivate *bool
	ImageURLs *[]string
	Tags      *[]string
}

// PostRepository defines the interface for post data operations.
// Reads are filtered by visibility to viewerID; writes are scoped to authorID.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, imageURLs, tags []string) error
	GetVisible(ctx context.Context, id, viewerID string) (*models.Post, error)
	ListVisible(ctx context.Context, viewerID string, offset, limit int) ([]*models.Post, int64, error)
	UpdateOwned(ctx context.Context, id, authorID string, changes PostChanges) (*models.Post, error)
	DeleteOwned(ctx context.Context, id, authorID string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// visibleTo restricts posts to public ones and those authored by viewerID.
func visibleTo(viewerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(posts.is_private = ? OR posts.author_id = ?)", false, viewerID)
	}
}

// ownedBy restricts a statement to the post id authored by authorID.
func ownedBy(id, authorID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id = ? AND posts.author_id = ?", id, authorID)
	}
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("images.id ASC")
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at ASC, comments.id ASC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, imageURLs, tags []string) error {
	post.Images = make([]models.Image, 0, len(imageURLs))
	for _, u := range imageURLs {
		post.Images = append(post.Images, models.Image{URL: u})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := upsertTags(tx, tags)
		if err != nil {
			return err
		}
		if err := tx.Omit("Tags").Create(post).Error; err != nil {
			return err
		}
		if err := linkTags(tx, post.ID, resolved); err != nil {
			return err
		}
		post.Tags = resolved
		return nil
	})
	return translateError(err, postNotFound)
}

func (r *postRepository) GetVisible(ctx context.Context, id, viewerID string) (*models.Post, error) {
	if !validID(id) {
		return nil, models.NewNotFoundError(postNotFound)
	}

	var post models.Post
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(viewerID)).
		Preload("Author", selectPublicUser).
		Preload("Images", orderImages).
		Preload("Tags").
		Preload("Likes").
		Preload("Comments", orderComments).
		Preload("Comments.User", selectPublicUser).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, translateError(err, postNotFound)
	}
	return &post, nil
}

func (r *postRepository) ListVisible(ctx context.Context, viewerID string, offset, limit int) ([]*models.Post, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Post{}).Scopes(visibleTo(viewerID)).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, postNotFound)
	}

	posts := []*models.Post{}
	err := db.
		Select("posts.*, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count").
		Scopes(visibleTo(viewerID)).
		Preload("Author", selectPublicUser).
		Preload("Images", orderImages).
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translateError(err, postNotFound)
	}

	for _, p := range posts {
		p.Counts = &models.PostCounts{Likes: p.LikesCount, Comments: p.CommentsCount}
	}
	return posts, total, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, authorID string, changes PostChanges) (*models.Post, error) {
	if !validID(id) {
		return nil, models.NewNotFoundError(postNotFound)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Content != nil {
		updates["content"] = *changes.Content
	}
	if changes.IsPrivate != nil {
		updates["is_private"] = *changes.IsPrivate
	}

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Scopes(ownedBy(id, authorID)).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if changes.ImageURLs != nil {
			if err := tx.Where("post_id = ?", id).Delete(&models.Image{}).Error; err != nil {
				return err
			}
			if len(*changes.ImageURLs) > 0 {
				images := make([]models.Image, 0, len(*changes.ImageURLs))
				for _, u := range *changes.ImageURLs {
					images = append(images, models.Image{URL: u, PostID: id})
				}
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}

		if changes.Tags != nil {
			resolved, err := upsertTags(tx, *changes.Tags)
			if err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&postTag{}).Error; err != nil {
				return err
			}
			if err := linkTags(tx, id, resolved); err != nil {
				return err
			}
		}

		return tx.
			Preload("Images", orderImages).
			Preload("Tags").
			Where("posts.id = ?", id).
			First(&post).Error
	})
	if err != nil {
		return nil, translateError(err, postNotFound)
	}
	return &post, nil
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, authorID string) error {
	if !validID(id) {
		return models.NewNotFoundError(postNotFound)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Post{}).Select("posts.id").Scopes(ownedBy(id, authorID))
		}

		if err := tx.Where("post_id IN (?)", owned()).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", owned()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", owned()).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", owned()).Delete(&postTag{}).Error; err != nil {
			return err
		}

		res := tx.Scopes(ownedBy(id, authorID)).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err, postNotFound)
}

// postTag is a row of the posts/tags join table.
type postTag struct {
	PostID string
	TagID  uint
}

func (postTag) TableName() string {
	return "post_tags"
}

// normalizeTags trims names and drops blanks and duplicates, keeping first-seen order.
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// upsertTags resolves each name to its Tag row, creating missing ones.
// The result follows the order of the normalized names.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	names = normalizeTags(names)
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	candidates := make([]models.Tag, 0, len(names))
	for _, n := range names {
		candidates = append(candidates, models.Tag{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidates).Error; err != nil {
		return nil, err
	}

	var found []models.Tag
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]models.Tag, len(found))
	for _, t := range found {
		byName[t.Name] = t
	}

	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		if t, ok := byName[n]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func linkTags(tx *gorm.DB, postID string, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	links := make([]postTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, postTag{PostID: postID, TagID: t.ID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
