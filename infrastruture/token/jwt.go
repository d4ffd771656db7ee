package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/wired/service/i"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 24 * time.Hour

	claimSubject  = "sub"
	claimIssuer   = "iss"
	claimIssuedAt = "iat"
	claimExpires  = "exp"
)

var (
	ErrEmptySecret  = errors.New("token secret is empty")
	ErrInvalidToken = errors.New("invalid viewer token")
)

// JwtService signs viewer ids into HS256 JWTs.
// Implements i.ViewerTokenizer.
type JwtService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

var _ i.ViewerTokenizer = &JwtService{}

// NewJwtService creates a JwtService. A zero ttl means DefaultTTL.
func NewJwtService(secretKey, issuer string, ttl time.Duration) (*JwtService, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &JwtService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}, nil
}

// Issue creates a token whose subject is the viewer id.
func (s *JwtService) Issue(id uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		claimSubject:  id.String(),
		claimIssuer:   s.issuer,
		claimIssuedAt: now.Unix(),
		claimExpires:  now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Parse validates a token and returns the viewer id it carries.
func (s *JwtService) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid || !claims.VerifyIssuer(s.issuer, true) {
		return uuid.Nil, ErrInvalidToken
	}

	subject, _ := claims[claimSubject].(string)
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secretKey, nil
}
