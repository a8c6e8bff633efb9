package repository

import (
	"context"
	"sync"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLikes(t *testing.T, repo *engagementRepository, userID, postID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error)
	return n
}

func TestEngagementRepository_ToggleLikeParity(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	fan := testutil.CreateUser(t, db, "fan@example.com")
	post := testutil.CreatePost(t, db, owner.ID, "p", false)

	want := []models.LikeResult{
		models.LikeResultLiked,
		models.LikeResultUnliked,
		models.LikeResultLiked,
		models.LikeResultUnliked,
		models.LikeResultLiked,
	}
	for i, expected := range want {
		got, err := repo.ToggleLike(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "toggle %d", i+1)

		wantRows := int64(0)
		if expected == models.LikeResultLiked {
			wantRows = 1
		}
		assert.Equal(t, wantRows, countLikes(t, repo, fan.ID, post.ID))
	}
}

func TestEngagementRepository_ConcurrentTogglesNeverDuplicate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewEngagementRepository(db).(*engagementRepository)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	post := testutil.CreatePost(t, db, owner.ID, "p", false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.ToggleLike(ctx, owner.ID, post.ID)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, countLikes(t, repo, owner.ID, post.ID), int64(1))
}

func TestEngagementRepository_ToggleLikeRequiresVisibility(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")
	private := testutil.CreatePost(t, db, owner.ID, "secret", true)

	_, err := repo.ToggleLike(ctx, other.ID, private.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = repo.ToggleLike(ctx, other.ID, uuid.NewString())
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = repo.ToggleLike(ctx, other.ID, "bad-id")
	assertAppErrorCode(t, err, models.CodeNotFound)

	got, err := repo.ToggleLike(ctx, owner.ID, private.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResultLiked, got)
}

func TestEngagementRepository_AddComment(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")
	public := testutil.CreatePost(t, db, owner.ID, "p", false)
	private := testutil.CreatePost(t, db, owner.ID, "s", true)

	comment, err := repo.AddComment(ctx, other.ID, public.ID, "Great post")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "Great post", comment.Content)
	assert.Equal(t, public.ID, comment.PostID)
	require.NotNil(t, comment.User)
	assert.Equal(t, other.ID, comment.User.ID)
	assert.Empty(t, comment.User.Email)

	_, err = repo.AddComment(ctx, other.ID, private.ID, "sneaky")
	assertAppErrorCode(t, err, models.CodeNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", private.ID).Count(&n).Error)
	assert.Zero(t, n)
}
