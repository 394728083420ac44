package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User  *domain.User
	Token domain.Token
}

// UserLoader is the part of the credential store the guard needs.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLoader
	now    func() time.Time
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, now: time.Now}
}

// CurrentUser verifies raw and loads the user it names. A user deleted after
// the token was issued yields a not-found error.
func (m *AuthMiddleware) CurrentUser(ctx context.Context, raw string) (*Principal, error) {
	token, err := m.tokens.Verify(raw, m.now())
	if err != nil {
		return nil, apperrors.NewUnauthorized("could not validate credentials")
	}

	user, err := m.users.GetByID(ctx, token.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return &Principal{User: user, Token: token}, nil
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	principal, err := m.CurrentUser(c.UserContext(), strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	SetPrincipal(c, principal)
	return c.Next()
}

// SetPrincipal stores the authenticated entity for downstream handlers.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil && principal.User != nil
}
