// Package services contains server-side business logic. This file implements
// UserService: registration, login, profile updates, and minting the access
// tokens that authenticate every other call.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/server/auth"
	"github.com/learninfinity/learninfinity/internal/server/config"
	"github.com/learninfinity/learninfinity/internal/server/models"
	"github.com/learninfinity/learninfinity/internal/server/repositories/repomanager"
)

// UserService provides account operations:
// - Register: create users with the configured starting credit balance
// - Login: verify credentials and update last login
// - GetUser / UpdateProfile: read and mutate the account record
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	jwtSecret      []byte
	tokenValidity  time.Duration
	initialCredits int64
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:             db,
		repomanager:    m,
		jwtSecret:      []byte(cfg.SecretKey),
		tokenValidity:  cfg.AccessTokenValidityDuration,
		initialCredits: cfg.InitialCredits,
	}
}

// Register creates a new account. The caller has already validated the
// input; duplicate emails surface as common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Credits:      s.initialCredits,
		JoinedDate:   time.Now(),
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.withSkills(ctx, created)
}

// Login verifies the email/password pair. Unknown emails and wrong passwords
// both map to ErrorUnauthorized so the response cannot be used to probe for
// accounts; deactivated accounts get their own sentinel.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		return nil, common.ErrAccountDeactivated
	}

	user.LastLogin = time.Now()
	if err := repo.UpdateLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		return nil, common.ErrorInternal
	}

	return s.withSkills(ctx, user)
}

// GetUser loads the full user projection, skills included.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.withSkills(ctx, user)
}

// UpdateProfile overwrites name and/or email; empty strings keep the stored
// values.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}

	return s.withSkills(ctx, user)
}

// AccessToken mints a bearer token for the user.
func (s *UserService) AccessToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *UserService) withSkills(ctx context.Context, user *models.User) (*models.User, error) {
	return attachSkills(ctx, s.repomanager.Skills(s.db), user)
}
