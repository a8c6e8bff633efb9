package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "a@b.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	_, err := uuid.Parse(user.ID)
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@b.com")
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = repo.GetByID(ctx, "nope")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "dup@b.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Email: "dup@b.com", Password: "y"})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestUserRepository_Counts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	engagement := NewEngagementRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "counts@b.com")
	p1 := testutil.CreatePost(t, db, user.ID, "one", false)
	testutil.CreatePost(t, db, user.ID, "two", true)

	_, err := engagement.ToggleLike(ctx, user.ID, p1.ID)
	require.NoError(t, err)
	_, err = engagement.AddComment(ctx, user.ID, p1.ID, "a")
	require.NoError(t, err)
	_, err = engagement.AddComment(ctx, user.ID, p1.ID, "b")
	require.NoError(t, err)

	counts, err := repo.Counts(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.UserCounts{Posts: 2, Likes: 1, Comments: 2}, counts)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "profile@b.com")

	bio := "writes about Go"
	updated, err := repo.UpdateProfile(ctx, user.ID, ProfileChanges{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, bio, *updated.Bio)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "profile@b.com", *updated.Name, "unsupplied fields stay unchanged")

	same, err := repo.UpdateProfile(ctx, user.ID, ProfileChanges{})
	require.NoError(t, err)
	assert.Equal(t, bio, *same.Bio)

	_, err = repo.UpdateProfile(ctx, uuid.NewString(), ProfileChanges{Bio: &bio})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserRepository_GetByEmailSQL(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("a@b.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByEmail(context.Background(), "a@b.com")
	assertAppErrorCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"record not found", gorm.ErrRecordNotFound, models.CodeNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), gorm.ErrRecordNotFound), models.CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, models.CodeConflict},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, models.CodeConflict},
		{"sqlite unique text", errors.New("UNIQUE constraint failed: users.email"), models.CodeConflict},
		{"pg other", &pgconn.PgError{Code: "23503"}, models.CodePersistence},
		{"generic", errors.New("boom"), models.CodePersistence},
		{"app error passes through", models.NewForbiddenError("no"), models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAppErrorCode(t, translateError(tt.err, "Thing not found"), tt.code)
		})
	}

	assert.NoError(t, translateError(nil, "x"))
}
