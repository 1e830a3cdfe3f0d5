package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = domain.KindError(domain.ErrUnauthorized, "invalid or expired token")

// Claims are carried in every bearer token. Version must equal the user's
// current session version for the token to be accepted.
type Claims struct {
	UserID  string      `json:"uid"`
	Role    domain.Role `json:"role"`
	Version int64       `json:"ver"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() domain.Identity {
	return domain.Identity{UserID: c.UserID, Role: c.Role}
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for userID at session version.
func (i *Issuer) Issue(userID string, role domain.Role, version int64) (string, error) {
	if userID == "" || !role.Valid() {
		return "", domain.KindErrorf(domain.ErrInvalidInput, "cannot issue token for user %q with role %q", userID, role)
	}
	now := i.now()
	claims := Claims{
		UserID:  userID,
		Role:    role,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Every failure is ErrInvalidToken.
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.KindError(ErrInvalidToken, "token has expired")
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
