// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteDB opens a private in-memory SQLite database with the full schema
// migrated and foreign keys enforced.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, database.EnableForeignKeys(db))
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewMockDB returns a GORM handle over sqlmock using the postgres dialect.
func NewMockDB(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, mock
}

// CreateUser inserts a user with the given email and an unusable password hash.
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	name := email
	user := &models.User{Email: email, Password: "x", Name: &name}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post authored by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID, title string, private bool) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: title + " content", AuthorID: authorID, IsPrivate: private}
	require.NoError(t, db.Create(post).Error)
	return post
}
