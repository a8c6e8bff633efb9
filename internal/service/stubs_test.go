package service

import (
	"context"
	"sync"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	countsFn        func(context.Context, string) (*models.UserCounts, error)
	updateProfileFn func(context.Context, string, repository.ProfileChanges) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Counts(ctx context.Context, id string) (*models.UserCounts, error) {
	return s.countsFn(ctx, id)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id string, changes repository.ProfileChanges) (*models.User, error) {
	return s.updateProfileFn(ctx, id, changes)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post, []string, []string) error
	getVisibleFn  func(context.Context, string, string) (*models.Post, error)
	listVisibleFn func(context.Context, string, int, int) ([]*models.Post, int64, error)
	updateOwnedFn func(context.Context, string, string, repository.PostChanges) (*models.Post, error)
	deleteOwnedFn func(context.Context, string, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, imageURLs, tags []string) error {
	return s.createFn(ctx, post, imageURLs, tags)
}
func (s *postRepoStub) GetVisible(ctx context.Context, id, viewerID string) (*models.Post, error) {
	return s.getVisibleFn(ctx, id, viewerID)
}
func (s *postRepoStub) ListVisible(ctx context.Context, viewerID string, offset, limit int) ([]*models.Post, int64, error) {
	return s.listVisibleFn(ctx, viewerID, offset, limit)
}
func (s *postRepoStub) UpdateOwned(ctx context.Context, id, authorID string, changes repository.PostChanges) (*models.Post, error) {
	return s.updateOwnedFn(ctx, id, authorID, changes)
}
func (s *postRepoStub) DeleteOwned(ctx context.Context, id, authorID string) error {
	return s.deleteOwnedFn(ctx, id, authorID)
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	toggleLikeFn func(context.Context, string, string) (models.LikeResult, error)
	addCommentFn func(context.Context, string, string, string) (*models.Comment, error)
}

func (s *engagementRepoStub) ToggleLike(ctx context.Context, userID, postID string) (models.LikeResult, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error) {
	return s.addCommentFn(ctx, userID, postID, content)
}

type publishedEvent struct {
	Type    string
	Payload map[string]interface{}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func assertCode(err error, code string) bool {
	return err != nil && models.AsAppError(err).Code == code
}

func strPtr(s string) *string { return &s }
