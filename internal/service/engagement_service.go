package service

import (
	"context"

	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// EngagementService handles likes and comments.
type EngagementService struct {
	engagement repository.EngagementRepository
	publisher  events.Publisher
}

// NewEngagementService creates an EngagementService. A nil publisher disables events.
func NewEngagementService(engagement repository.EngagementRepository, publisher events.Publisher) *EngagementService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &EngagementService{engagement: engagement, publisher: publisher}
}

// ToggleLike likes the post, or removes the like if userID already liked it.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID string) (models.LikeResult, error) {
	result, err := s.engagement.ToggleLike(ctx, userID, postID)
	if err != nil {
		return "", err
	}

	observability.LikesToggled.WithLabelValues(string(result)).Inc()
	s.publisher.Publish(ctx, events.PostReactionUpdated, map[string]interface{}{
		"post_id": postID,
		"user_id": userID,
		"result":  string(result),
	})
	return result, nil
}

// AddComment posts a comment on a post visible to userID.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error) {
	if details := appendNonEmpty(nil, "content", content); len(details) > 0 {
		return nil, models.NewValidationError(details...)
	}

	comment, err := s.engagement.AddComment(ctx, userID, postID, content)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.CommentCreated, map[string]interface{}{
		"post_id":    postID,
		"comment_id": comment.ID,
		"user_id":    userID,
	})
	return comment, nil
}
