package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	var gotImages, gotTags []string
	repo := &postRepoStub{
		createFn: func(_ context.Context, p *models.Post, images, tags []string) error {
			gotImages, gotTags = images, tags
			p.ID = "p1"
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewPostService(repo, pub)
	before := testutil.ToFloat64(observability.PostsWritten.WithLabelValues("create"))

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:  "u1",
		Title:     "Hello",
		Content:   "World",
		ImageURLs: []string{"https://img.example/a.png"},
		Tags:      []string{"go", "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "u1", post.AuthorID)
	assert.False(t, post.IsPrivate)
	assert.NotNil(t, post.Images)
	assert.NotNil(t, post.Tags)
	assert.Equal(t, []string{"https://img.example/a.png"}, gotImages)
	assert.Equal(t, []string{"go", "go"}, gotTags)
	assert.Equal(t, []string{events.PostCreated}, pub.types())
	assert.Equal(t, before+1, testutil.ToFloat64(observability.PostsWritten.WithLabelValues("create")))
}

func TestPostService_CreatePostPrivate(t *testing.T) {
	repo := &postRepoStub{createFn: func(context.Context, *models.Post, []string, []string) error { return nil }}
	private := true

	post, err := NewPostService(repo, nil).CreatePost(context.Background(), CreatePostInput{
		AuthorID: "u1", Title: "t", Content: "c", IsPrivate: &private,
	})
	require.NoError(t, err)
	assert.True(t, post.IsPrivate)
}

func TestPostService_CreatePostValidation(t *testing.T) {
	called := false
	repo := &postRepoStub{createFn: func(context.Context, *models.Post, []string, []string) error {
		called = true
		return nil
	}}
	svc := NewPostService(repo, nil)

	tests := []struct {
		name  string
		input CreatePostInput
		field string
	}{
		{"missing title", CreatePostInput{Content: "c"}, "title"},
		{"blank content", CreatePostInput{Title: "t", Content: "   "}, "content"},
		{"bad image url", CreatePostInput{Title: "t", Content: "c", ImageURLs: []string{"https://ok.example/x", "nope"}}, "imageUrls[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), tt.input)
			require.True(t, assertCode(err, models.CodeValidation))
			details := models.AsAppError(err).Details.([]models.FieldError)
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
		})
	}
	assert.False(t, called)
}

func TestPostService_GetPostReturnsArrays(t *testing.T) {
	repo := &postRepoStub{getVisibleFn: func(_ context.Context, id, viewer string) (*models.Post, error) {
		assert.Equal(t, "p1", id)
		assert.Equal(t, "u2", viewer)
		return &models.Post{ID: id, Title: "t"}, nil
	}}

	detail, err := NewPostService(repo, nil).GetPost(context.Background(), "p1", "u2")
	require.NoError(t, err)

	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "p1", body["id"])
	assert.Equal(t, []any{}, body["likes"])
	assert.Equal(t, []any{}, body["comments"])
	assert.Equal(t, []any{}, body["images"])
	assert.Equal(t, []any{}, body["tags"])
	assert.NotContains(t, body, "_count")
}

func TestPostService_GetPostNotFound(t *testing.T) {
	repo := &postRepoStub{getVisibleFn: func(context.Context, string, string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post not found")
	}}

	_, err := NewPostService(repo, nil).GetPost(context.Background(), "p1", "u2")
	assert.True(t, assertCode(err, models.CodeNotFound))
}

func TestPostService_ListPosts(t *testing.T) {
	tests := []struct {
		name       string
		params     pagination.Params
		total      int64
		wantOffset int
		wantPages  int64
	}{
		{"first page", pagination.Params{Page: 1, Limit: 10}, 25, 0, 3},
		{"third page", pagination.Params{Page: 3, Limit: 10}, 25, 20, 3},
		{"empty", pagination.Params{Page: 1, Limit: 10}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &postRepoStub{listVisibleFn: func(_ context.Context, viewer string, offset, limit int) ([]*models.Post, int64, error) {
				assert.Equal(t, "u1", viewer)
				assert.Equal(t, tt.wantOffset, offset)
				assert.Equal(t, tt.params.Limit, limit)
				return nil, tt.total, nil
			}}

			page, err := NewPostService(repo, nil).ListPosts(context.Background(), "u1", tt.params)
			require.NoError(t, err)
			assert.NotNil(t, page.Posts)
			assert.Equal(t, tt.total, page.Pagination.Total)
			assert.Equal(t, tt.wantPages, page.Pagination.TotalPages)
			assert.Equal(t, tt.params.Page, page.Pagination.Page)
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	var got repository.PostChanges
	repo := &postRepoStub{updateOwnedFn: func(_ context.Context, id, author string, changes repository.PostChanges) (*models.Post, error) {
		assert.Equal(t, "p1", id)
		assert.Equal(t, "u1", author)
		got = changes
		return &models.Post{ID: id, AuthorID: author, Title: *changes.Title}, nil
	}}
	pub := &recordingPublisher{}
	images := []string{}

	post, err := NewPostService(repo, pub).UpdatePost(context.Background(), UpdatePostInput{
		PostID: "p1", AuthorID: "u1", Title: strPtr("New"), ImageURLs: &images,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)
	assert.Nil(t, got.Content)
	assert.Nil(t, got.Tags)
	require.NotNil(t, got.ImageURLs)
	assert.Empty(t, *got.ImageURLs)
	assert.Equal(t, []string{events.PostUpdated}, pub.types())
}

func TestPostService_UpdatePostValidation(t *testing.T) {
	repo := &postRepoStub{updateOwnedFn: func(context.Context, string, string, repository.PostChanges) (*models.Post, error) {
		t.Fatal("repository must not be called")
		return nil, nil
	}}
	svc := NewPostService(repo, nil)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{PostID: "p1", AuthorID: "u1", Title: strPtr("")})
	assert.True(t, assertCode(err, models.CodeValidation))

	bad := []string{"ftp//broken"}
	_, err = svc.UpdatePost(context.Background(), UpdatePostInput{PostID: "p1", AuthorID: "u1", ImageURLs: &bad})
	assert.True(t, assertCode(err, models.CodeValidation))
}

func TestPostService_UpdateNotOwnedPublishesNothing(t *testing.T) {
	repo := &postRepoStub{updateOwnedFn: func(context.Context, string, string, repository.PostChanges) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post not found")
	}}
	pub := &recordingPublisher{}

	_, err := NewPostService(repo, pub).UpdatePost(context.Background(), UpdatePostInput{PostID: "p1", AuthorID: "u2", Title: strPtr("x")})
	assert.True(t, assertCode(err, models.CodeNotFound))
	assert.Empty(t, pub.types())
}

func TestPostService_DeletePost(t *testing.T) {
	pub := &recordingPublisher{}
	repo := &postRepoStub{deleteOwnedFn: func(_ context.Context, id, author string) error {
		if author != "u1" {
			return models.NewNotFoundError("Post not found")
		}
		return nil
	}}
	svc := NewPostService(repo, pub)

	err := svc.DeletePost(context.Background(), "p1", "u2")
	assert.True(t, assertCode(err, models.CodeNotFound))
	assert.Empty(t, pub.types())

	require.NoError(t, svc.DeletePost(context.Background(), "p1", "u1"))
	assert.Equal(t, []string{events.PostDeleted}, pub.types())
}

func TestPostService_DeletePostPersistenceError(t *testing.T) {
	repo := &postRepoStub{deleteOwnedFn: func(context.Context, string, string) error {
		return models.NewPersistenceError(errors.New("boom"))
	}}

	err := NewPostService(repo, nil).DeletePost(context.Background(), "p1", "u1")
	assert.True(t, assertCode(err, models.CodePersistence))
}
