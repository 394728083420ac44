package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenManager handles issuing and validating JWT tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
}

// NewTokenManager builds a manager for one of HS256, HS384 or HS512.
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenManager{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes JWT payload.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the user valid from now until now+ttl.
// now is truncated to whole seconds since NumericDate carries no fraction.
func (tm *TokenManager) Issue(userID int64, username string, role domain.Role, now time.Time) (domain.Token, error) {
	now = now.Truncate(time.Second)
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(tm.method, claims).SignedString(tm.secret)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{
		Value:     signed,
		SubjectID: userID,
		Username:  username,
		Role:      role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, algorithm and expiry against now and returns
// the decoded token. Every failure is reported as ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string, now time.Time) (domain.Token, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Token{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return domain.Token{}, fmt.Errorf("%w: unknown role", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	token := domain.Token{
		Value:     tokenStr,
		SubjectID: id,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	return token, nil
}
