package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/cryptox"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/jwtx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// UserService handles registration and login. Identity is deliberately thin:
// tokens carry who you are, never what you may do.
type UserService struct {
	store  store.Store
	issuer *jwtx.Issuer
}

func NewUserService(st store.Store, issuer *jwtx.Issuer) *UserService {
	return &UserService{store: st, issuer: issuer}
}

// LoginResult is a minted access token plus the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Register creates a new user account. Emails are stored lowercased and
// must be unique.
func (s *UserService) Register(ctx context.Context, email, firstName, lastName, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidCredentials)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: hash,
	}
	if err := s.store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrAlreadyExists
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Login verifies credentials and mints an access token. Unknown email and
// wrong password return the same error so login cannot be used to probe for
// accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	token, expiresAt, err := s.issuer.Mint(u.ID.String(), u.Email)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id idx.ID) (domain.User, error) {
	u, err := s.store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
