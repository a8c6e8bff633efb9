package service

import (
	"context"
	"fmt"

	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// MessagePostDeleted confirms a successful delete.
const MessagePostDeleted = "Post deleted successfully"

// CreatePostInput is the payload for a new post.
type CreatePostInput struct {
	AuthorID  string
	Title     string
	Content   string
	IsPrivate *bool
	ImageURLs []string
	Tags      []string
}

// UpdatePostInput lists the changes to an owned post. Nil fields stay as they are;
// a non-nil ImageURLs or Tags replaces the whole set.
type UpdatePostInput struct {
	PostID    string
	AuthorID  string
	Title     *string
	Content   *string
	IsPrivate *bool
	ImageURLs *[]string
	Tags      *[]string
}

// PostDetail is a single post with its likes and comments always present as arrays.
type PostDetail struct {
	*models.Post
	Likes    []models.Like    `json:"likes"`
	Comments []models.Comment `json:"comments"`
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []*models.Post  `json:"posts"`
	Pagination pagination.Meta `json:"pagination"`
}

// PostService applies the visibility and ownership rules to posts.
type PostService struct {
	posts     repository.PostRepository
	publisher events.Publisher
}

// NewPostService creates a PostService. A nil publisher disables events.
func NewPostService(posts repository.PostRepository, publisher events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &PostService{posts: posts, publisher: publisher}
}

// CreatePost stores a post owned by in.AuthorID.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var details []models.FieldError
	details = appendNonEmpty(details, "title", in.Title)
	details = appendNonEmpty(details, "content", in.Content)
	details = appendURLs(details, "imageUrls", in.ImageURLs)
	if len(details) > 0 {
		return nil, models.NewValidationError(details...)
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}
	if in.IsPrivate != nil {
		post.IsPrivate = *in.IsPrivate
	}

	if err := s.posts.Create(ctx, post, in.ImageURLs, in.Tags); err != nil {
		return nil, err
	}

	withCollections(post)
	observability.PostsWritten.WithLabelValues("create").Inc()
	s.publisher.Publish(ctx, events.PostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"author_id":  post.AuthorID,
		"is_private": post.IsPrivate,
	})
	return post, nil
}

// GetPost returns a post the viewer may read. Hidden and missing posts are both not found.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*PostDetail, error) {
	post, err := s.posts.GetVisible(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: post, Likes: post.Likes, Comments: post.Comments}
	if detail.Likes == nil {
		detail.Likes = []models.Like{}
	}
	if detail.Comments == nil {
		detail.Comments = []models.Comment{}
	}
	withCollections(post)
	return detail, nil
}

// ListPosts returns one page of the posts visible to viewerID, newest first.
func (s *PostService) ListPosts(ctx context.Context, viewerID string, params pagination.Params) (*PostPage, error) {
	posts, total, err := s.posts.ListVisible(ctx, viewerID, params.Skip(), params.Take())
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	for _, p := range posts {
		withCollections(p)
	}
	return &PostPage{Posts: posts, Pagination: pagination.NewMeta(total, params)}, nil
}

// UpdatePost applies in to a post owned by in.AuthorID.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	var details []models.FieldError
	if in.Title != nil {
		details = appendNonEmpty(details, "title", *in.Title)
	}
	if in.Content != nil {
		details = appendNonEmpty(details, "content", *in.Content)
	}
	if in.ImageURLs != nil {
		details = appendURLs(details, "imageUrls", *in.ImageURLs)
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details...)
	}

	post, err := s.posts.UpdateOwned(ctx, in.PostID, in.AuthorID, repository.PostChanges{
		Title:     in.Title,
		Content:   in.Content,
		IsPrivate: in.IsPrivate,
		ImageURLs: in.ImageURLs,
		Tags:      in.Tags,
	})
	if err != nil {
		return nil, err
	}

	withCollections(post)
	observability.PostsWritten.WithLabelValues("update").Inc()
	s.publisher.Publish(ctx, events.PostUpdated, map[string]interface{}{
		"post_id":   post.ID,
		"author_id": post.AuthorID,
	})
	return post, nil
}

// DeletePost removes a post owned by authorID together with its likes, comments, images and tag links.
func (s *PostService) DeletePost(ctx context.Context, postID, authorID string) error {
	if err := s.posts.DeleteOwned(ctx, postID, authorID); err != nil {
		return err
	}

	observability.PostsWritten.WithLabelValues("delete").Inc()
	s.publisher.Publish(ctx, events.PostDeleted, map[string]interface{}{
		"post_id":   postID,
		"author_id": authorID,
	})
	return nil
}

// withCollections makes images and tags encode as empty arrays rather than null.
func withCollections(p *models.Post) {
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}
}

func appendNonEmpty(details []models.FieldError, field, value string) []models.FieldError {
	if err := validation.ValidateNonEmpty(value); err != nil {
		details = append(details, models.FieldError{Field: field, Message: err.Error()})
	}
	return details
}

func appendURLs(details []models.FieldError, field string, urls []string) []models.FieldError {
	for i, u := range urls {
		if err := validation.ValidateURL(u); err != nil {
			details = append(details, models.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: err.Error()})
		}
	}
	return details
}
