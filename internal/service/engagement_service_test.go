package service

import (
	"context"
	"testing"

	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_ToggleLike(t *testing.T) {
	liked := map[string]bool{}
	repo := &engagementRepoStub{toggleLikeFn: func(_ context.Context, userID, postID string) (models.LikeResult, error) {
		key := userID + "/" + postID
		liked[key] = !liked[key]
		if liked[key] {
			return models.LikeResultLiked, nil
		}
		return models.LikeResultUnliked, nil
	}}
	pub := &recordingPublisher{}
	svc := NewEngagementService(repo, pub)
	ctx := context.Background()
	likedBefore := testutil.ToFloat64(observability.LikesToggled.WithLabelValues("liked"))

	res, err := svc.ToggleLike(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Post liked", res.Message())

	res, err = svc.ToggleLike(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Post unliked", res.Message())

	assert.Equal(t, []string{events.PostReactionUpdated, events.PostReactionUpdated}, pub.types())
	assert.Equal(t, likedBefore+1, testutil.ToFloat64(observability.LikesToggled.WithLabelValues("liked")))
}

func TestEngagementService_ToggleLikeHiddenPost(t *testing.T) {
	repo := &engagementRepoStub{toggleLikeFn: func(context.Context, string, string) (models.LikeResult, error) {
		return "", models.NewNotFoundError("Post not found")
	}}
	pub := &recordingPublisher{}

	_, err := NewEngagementService(repo, pub).ToggleLike(context.Background(), "u1", "p1")
	assert.True(t, assertCode(err, models.CodeNotFound))
	assert.Empty(t, pub.types())
}

func TestEngagementService_AddComment(t *testing.T) {
	repo := &engagementRepoStub{addCommentFn: func(_ context.Context, userID, postID, content string) (*models.Comment, error) {
		return &models.Comment{ID: "c1", UserID: userID, PostID: postID, Content: content}, nil
	}}
	pub := &recordingPublisher{}

	comment, err := NewEngagementService(repo, pub).AddComment(context.Background(), "u1", "p1", "Nice")
	require.NoError(t, err)
	assert.Equal(t, "Nice", comment.Content)
	assert.Equal(t, []string{events.CommentCreated}, pub.types())
	assert.Equal(t, "c1", pub.events[0].Payload["comment_id"])
}

func TestEngagementService_AddCommentRequiresContent(t *testing.T) {
	repo := &engagementRepoStub{addCommentFn: func(context.Context, string, string, string) (*models.Comment, error) {
		t.Fatal("repository must not be called")
		return nil, nil
	}}

	_, err := NewEngagementService(repo, nil).AddComment(context.Background(), "u1", "p1", " ")
	assert.True(t, assertCode(err, models.CodeValidation))
}
