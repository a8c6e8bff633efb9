// Package service holds the business rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// Confirmation messages returned with a fresh token.
const (
	MessageSignedUp = "User Created Successfully"
	MessageSignedIn = "User Signed in Successfully"
)

const invalidCredentials = "Invalid credentials"

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenSigner mints bearer tokens for a user id.
type TokenSigner interface {
	Sign(subject string) (string, error)
}

// SignupInput is the signup payload.
type SignupInput struct {
	Email    string
	Password string
	Name     *string
}

// SigninInput is the signin payload.
type SigninInput struct {
	Email    string
	Password string
}

// AuthResult is returned by signup and signin.
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenSigner
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenSigner) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Signup creates a user and returns a token for it. A taken email is a conflict.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)

	var details []models.FieldError
	if err := validation.ValidateEmail(email); err != nil {
		details = append(details, models.FieldError{Field: "email", Message: err.Error()})
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		details = append(details, models.FieldError{Field: "password", Message: err.Error()})
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details...)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Email: email, Password: hash, Name: in.Name}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Message: MessageSignedUp, Token: token}, nil
}

// Signin checks the credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Signin(ctx context.Context, in SigninInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(models.FieldError{Field: "email", Message: err.Error()})
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr := models.AsAppError(err); appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.Password, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, models.NewUnauthorizedError(invalidCredentials)
		}
		return nil, models.NewInternalError(err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Message: MessageSignedIn, Token: token}, nil
}
