package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

const invalidCredentialsMessage = "Invalid username or password"

// AuthService verifies staff credentials and issues session tokens.
type AuthService struct {
	store       repository.Store
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
	logger      *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Store       repository.Store
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	BcryptCost  int
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:       deps.Store,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		bcryptCost:  deps.BcryptCost,
		logger:      logger,
	}
}

// Login authenticates staff by exact username. Unknown usernames and wrong
// passwords fail with the same message and both pay for a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	var staff *domain.Staff
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		staff, err = repos.Staff.GetByUsername(ctx, username)
		if errors.Is(err, repository.ErrNotFound) {
			staff = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if staff == nil {
		_ = auth.ComparePassword(s.timingHash(), password)
		s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.String("username", username), zap.String("reason", "password mismatch"))
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	role, ok := domain.ParseRole(string(staff.Role))
	if !ok {
		return nil, apperrors.NewInternalError(errors.New("staff record carries unknown role " + string(staff.Role)))
	}
	staff.Role = role

	issued, err := s.tokens.GenerateToken(staff.Username, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("login succeeded", zap.String("username", staff.Username), zap.String("role", string(role)))
	return &domain.Session{
		Token:     issued.Token,
		TokenID:   issued.TokenID,
		Staff:     staff,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revocations == nil || tokenID == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, tokenID, expiresAt)
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword("memberops-unknown-user", s.bcryptCost)
		if err != nil {
			s.logger.Warn("timing hash unavailable", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
