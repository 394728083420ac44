package service

import (
	"context"
	"strings"

	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// RegisterInput is the public sign-up payload.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// CreateUserInput is the admin create payload. An empty role means user.
type CreateUserInput struct {
	RegisterInput
	Role domain.Role
}

// UserService manages accounts.
type UserService struct {
	users      repository.UserRepository
	tx         TxRunner
	bcryptCost int
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Tx         TxRunner
	BcryptCost int
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, tx: deps.Tx, bcryptCost: deps.BcryptCost}
}

// Register creates an account with role forced to user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// Create lets an admin pick the role.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	return s.create(ctx, in.RegisterInput, role)
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	if err := required("username", in.Username); err != nil {
		return nil, err
	}
	if err := required("email", in.Email); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, 0, &user.Username, &user.Email); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

// Update applies an admin patch, role included.
func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *patch.Role})
	}
	return s.update(ctx, id, patch)
}

// UpdateMe applies a self-service patch. The role can never change here.
func (s *UserService) UpdateMe(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	patch.Role = nil
	return s.update(ctx, id, patch)
}

func (s *UserService) update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var hash string
	if patch.Password != nil {
		var err error
		if hash, err = s.hash(*patch.Password); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		name  string
		value *string
	}{{"name", patch.Name}, {"username", patch.Username}, {"email", patch.Email}} {
		if f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*f.value)
		if err := required(f.name, trimmed); err != nil {
			return nil, err
		}
		*f.value = trimmed
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "user")
		}
		if err := s.ensureUnique(ctx, id, patch.Username, patch.Email); err != nil {
			return err
		}

		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Username != nil {
			user.Username = *patch.Username
		}
		if patch.Email != nil {
			user.Email = *patch.Email
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

// Delete removes the account and returns what was deleted.
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if user, err = s.users.GetByID(ctx, id); err != nil {
			return notFound(err, "user")
		}
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ensureUnique rejects a username or email held by a user other than selfID.
func (s *UserService) ensureUnique(ctx context.Context, selfID int64, username, email *string) error {
	if username != nil {
		existing, err := s.users.GetByUsername(ctx, *username)
		switch {
		case err == nil && existing.ID != selfID:
			return apperrors.NewConflict("username already taken", map[string]any{"username": *username})
		case err != nil && !isNoRows(err):
			return err
		}
	}
	if email != nil {
		existing, err := s.users.GetByEmail(ctx, *email)
		switch {
		case err == nil && existing.ID != selfID:
			return apperrors.NewConflict("email already registered", map[string]any{"email": *email})
		case err != nil && !isNoRows(err):
			return err
		}
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if err == auth.ErrPasswordLength {
			return "", apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
		}
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

func mapUserWriteError(err error) error {
	if apperrors.IsUniqueViolation(err) {
		return apperrors.NewConflict("username or email already in use", nil)
	}
	return apperrors.MapError(err)
}
