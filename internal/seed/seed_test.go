package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func withFastHasher(s *Seeder) *Seeder {
	s.hasher = auth.NewHasher(bcrypt.MinCost)
	return s
}

func TestLoadPreset(t *testing.T) {
	opts, err := LoadPreset(strings.NewReader(`
users: 3
posts_per_user: 2
private_ratio: 0.5
tags: [go, sql]
seed: 42
`))
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Users)
	assert.Equal(t, 2, opts.PostsPerUser)
	assert.Equal(t, 0.5, opts.PrivateRatio)
	assert.Equal(t, []string{"go", "sql"}, opts.Tags)
	assert.Equal(t, int64(42), opts.RandSeed)
	assert.Equal(t, DefaultOptions().Password, opts.Password)
}

func TestLoadPreset_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "userz: 3\n"},
		{"bad ratio", "private_ratio: 2\n"},
		{"no users", "users: 0\n"},
		{"short password", "password: abc\n"},
		{"malformed", "users: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPreset(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yml")
	require.NoError(t, os.WriteFile(path, []byte("users: 2\n"), 0o600))

	opts, err := LoadPresetFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Users)

	_, err = LoadPresetFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	opts, err = LoadPreset(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := withFastHasher(NewSeeder(db, testutil.DiscardLogger()))
	ctx := context.Background()

	opts := DefaultOptions()
	opts.Users = 4
	opts.PostsPerUser = 3
	opts.PrivateRatio = 0
	opts.LikesPerPost = 2
	opts.CommentsPerPost = 1
	opts.RandSeed = 7

	res, err := s.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 4, Posts: 12, Likes: 24, Comments: 12}, res)

	var users, posts, likes, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, []int64{4, 12, 24, 12}, []int64{users, posts, likes, comments})

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(opts.Password)))

	// A second clean run replaces the data instead of adding to it.
	opts.Users = 1
	opts.PostsPerUser = 1
	res, err = s.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Posts)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(1), posts)
}

func TestSeeder_PrivatePostsGetNoEngagement(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := withFastHasher(NewSeeder(db, testutil.DiscardLogger()))

	opts := DefaultOptions()
	opts.Users = 2
	opts.PostsPerUser = 2
	opts.PrivateRatio = 1
	opts.RandSeed = 1

	res, err := s.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Posts)
	assert.Zero(t, res.Likes)
	assert.Zero(t, res.Comments)

	var public int64
	require.NoError(t, db.Model(&models.Post{}).Where("is_private = ?", false).Count(&public).Error)
	assert.Zero(t, public)
}
