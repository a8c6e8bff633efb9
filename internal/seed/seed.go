package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
}

// Seeder writes demo data through the regular repositories so that tags,
// images and engagement follow the same rules as the API.
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	posts      repository.PostRepository
	engagement repository.EngagementRepository
	hasher     *auth.Hasher
	log        *slog.Logger
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{
		db:         db,
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		engagement: repository.NewEngagementRepository(db),
		hasher:     auth.NewHasher(0),
		log:        log.With(slog.String("component", "seed")),
	}
}

// Clear removes all application rows, dependents first.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"likes", "comments", "images", "post_tags", "tags", "posts", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Run seeds the database according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed options: %w", err)
	}

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	if opts.Clean {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(opts.Password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	res := &Result{}
	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		name := faker.Name()
		bio := faker.Sentence(8)
		image := fmt.Sprintf("https://picsum.photos/seed/%s/200/200", faker.UUID())
		user := &models.User{
			Email:    fmt.Sprintf("%s.%d@example.com", strings.ToLower(faker.Username()), i),
			Password: hash,
			Name:     &name,
			Bio:      &bio,
			Image:    &image,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
		res.Users++
	}
	s.log.InfoContext(ctx, "users created", slog.Int("count", res.Users))

	for _, author := range users {
		for j := 0; j < opts.PostsPerUser; j++ {
			post := &models.Post{
				Title:     faker.Sentence(5),
				Content:   faker.Paragraph(2, 4, 12, "\n\n"),
				AuthorID:  author.ID,
				IsPrivate: faker.Float64Range(0, 1) < opts.PrivateRatio,
			}
			if err := s.posts.Create(ctx, post, imageURLs(faker, opts.MaxImages), pickTags(faker, opts.Tags, opts.MaxTagsPerPost)); err != nil {
				return res, fmt.Errorf("create post: %w", err)
			}
			res.Posts++

			if post.IsPrivate {
				continue
			}
			likes, comments, err := s.engage(ctx, faker, post.ID, users, opts)
			res.Likes += likes
			res.Comments += comments
			if err != nil {
				return res, err
			}
		}
	}

	s.log.InfoContext(ctx, "seeding complete",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

// engage adds likes from distinct users and comments from random users to a public post.
func (s *Seeder) engage(ctx context.Context, faker *gofakeit.Faker, postID string, users []*models.User, opts Options) (int, int, error) {
	likes := 0
	for _, idx := range faker.Rand.Perm(len(users)) {
		if likes >= opts.LikesPerPost {
			break
		}
		result, err := s.engagement.ToggleLike(ctx, users[idx].ID, postID)
		if err != nil {
			return likes, 0, fmt.Errorf("like post: %w", err)
		}
		if result == models.LikeResultLiked {
			likes++
		}
	}

	comments := 0
	for k := 0; k < opts.CommentsPerPost; k++ {
		user := users[faker.Number(0, len(users)-1)]
		if _, err := s.engagement.AddComment(ctx, user.ID, postID, faker.Sentence(10)); err != nil {
			return likes, comments, fmt.Errorf("comment on post: %w", err)
		}
		comments++
	}
	return likes, comments, nil
}

func imageURLs(faker *gofakeit.Faker, max int) []string {
	if max <= 0 {
		return nil
	}
	n := faker.Number(0, max)
	urls := make([]string, 0, n)
	for i := 0; i < n; i++ {
		urls = append(urls, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", faker.UUID()))
	}
	return urls
}

func pickTags(faker *gofakeit.Faker, pool []string, max int) []string {
	if max <= 0 || len(pool) == 0 {
		return nil
	}
	if max > len(pool) {
		max = len(pool)
	}
	n := faker.Number(0, max)
	tags := make([]string, 0, n)
	for _, idx := range faker.Rand.Perm(len(pool))[:n] {
		tags = append(tags, pool[idx])
	}
	return tags
}
