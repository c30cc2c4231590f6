// Package services contains server-side business logic: registration and
// login, session resolution, profile management and saved visualizations.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
)

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a session token
// - Resolve: turn a session token back into the current user
type UserService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      auth.PasswordHasher
	audit       auditor
	logger      logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

// NewUserService constructs a UserService.
func NewUserService(tx dbx.Transactor, m repomanager.RepositoryManager, tokens *auth.TokenService,
	hasher auth.PasswordHasher, logger logging.Logger) *UserService {
	logger = logger.With("module", "users")
	return &UserService{
		tx:          tx,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		audit:       auditor{tx: tx, repos: m, logger: logger},
		logger:      logger,
	}
}

// Register validates the input and creates a user. Duplicate emails yield
// common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	if err := validateName("name", in.Name, true); err != nil {
		return nil, err
	}
	if err := validateName("surname", in.Surname, true); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Name:           &in.Name,
		Surname:        &in.Surname,
		HashedPassword: digest,
	}

	u, err := s.repomanager.Users(s.tx.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.audit.record(ctx, u.ID, models.AuditRegister, "")
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and returns the user with a fresh session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repomanager.Users(s.tx.Conn()).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}

	s.audit.record(ctx, user.ID, models.AuditLogin, "")
	return user, token, nil
}

// Resolve maps a session token to its user. Every failure, including a user
// deleted after the token was issued, is common.ErrorUnauthorized.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: not authenticated", common.ErrorUnauthorized)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: not authenticated", common.ErrorUnauthorized)
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: not authenticated", common.ErrorUnauthorized)
	}

	user, err := s.repomanager.Users(s.tx.Conn()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: not authenticated", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user, nil
}

// TokenTTL is the session lifetime, used for the cookie Max-Age.
func (s *UserService) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}

// dummy returns a digest to compare against when the email is unknown, so
// both login failures cost one hash comparison.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash("dsstudio-login-placeholder")
		if err != nil {
			s.logger.Error(context.Background(), "failed to prepare placeholder digest", "error", err)
			return
		}
		s.dummyDigest = d
	})
	return s.dummyDigest
}
