package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
)

const (
	// DefaultTokenExpiry is the horizon applied to issued tokens when no
	// expiry is configured.
	DefaultTokenExpiry = 24 * time.Hour

	// Issuer identifies tokens minted by this service.
	Issuer = "greengp"

	// minSecretLen is the minimum signing secret length for HMAC-SHA256.
	minSecretLen = 32
)

var (
	// ErrInvalidToken is returned when a token is absent, malformed, or its
	// signature does not verify against the configured secret.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a structurally valid token is past its
	// embedded expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Principal is the authenticated identity carried on the request context
// after token verification. Its fields are a snapshot of the user's profile
// at issuance time; profile changes are not reflected until the user logs in
// again. There is no revocation list - a token stays valid until expiry.
type Principal struct {
	UserID       uuid.UUID
	Email        string
	FullName     string
	Organization string
	Role         string
}

// Claims is the JWT claim set for session tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Tokens issues and verifies session tokens signed with a process-wide HMAC
// secret. The secret is immutable after construction; rotating it invalidates
// every outstanding token.
type Tokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer/verifier. The secret must be at least 32
// bytes. An expiry of 0 selects DefaultTokenExpiry.
func NewTokens(secret []byte, expiry time.Duration) (*Tokens, error) {
	if len(secret) < minSecretLen {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &Tokens{secret: secret, expiry: expiry, now: time.Now}, nil
}

// Issue creates a signed token for the user, embedding the profile claims and
// an expiry at the configured horizon from now.
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
		Email:        user.Email,
		FullName:     user.FullName,
		Organization: user.Organization,
		Role:         user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the token's signature and expiry and returns the embedded
// principal. Expired tokens fail with ErrExpiredToken; everything else that
// is wrong with a token fails with ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:       userID,
		Email:        claims.Email,
		FullName:     claims.FullName,
		Organization: claims.Organization,
		Role:         claims.Role,
	}, nil
}
