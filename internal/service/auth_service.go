package service

import (
	"context"
	"sync"
	"time"

	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	accounts *UserService
	tokenMgr *auth.TokenManager
	now      func() time.Time
	compare  func(hashed, plain string) error

	bcryptCost int
	dummyOnce  sync.Once
	dummyHash  string
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	UserService  *UserService
	TokenManager *auth.TokenManager
	// BcryptCost should match the cost stored hashes use so failed
	// lookups take as long as failed comparisons.
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		accounts:   deps.UserService,
		tokenMgr:   deps.TokenManager,
		now:        time.Now,
		compare:    auth.ComparePassword,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates an account with the user role regardless of input.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.accounts.Register(ctx, in)
}

// Authenticate checks credentials and issues a token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Token, error) {
	invalid := apperrors.NewUnauthorized("invalid credentials")

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if isNoRows(err) {
			_ = s.compare(s.dummy(), password)
			return domain.Token{}, invalid
		}
		return domain.Token{}, apperrors.MapError(err)
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		return domain.Token{}, invalid
	}

	token, err := s.tokenMgr.Issue(user.ID, user.Username, user.Role, s.now())
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// dummy returns a hash no password matches, built on first use.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("unknown-user-placeholder", s.bcryptCost)
	})
	return s.dummyHash
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
