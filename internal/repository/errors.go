// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translateError maps storage errors onto the application error taxonomy.
// notFound is the message used when the record does not exist.
func translateError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(notFound)
	}
	if isUniqueViolation(err) {
		return models.NewConflictError(err)
	}
	return models.NewPersistenceError(err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// validID reports whether id can be a stored primary key. Malformed ids are
// answered as not-found without touching the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// selectPublicUser limits a preloaded user to its public identity fields.
func selectPublicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image")
}
