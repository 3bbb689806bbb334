package v1

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 12

// TokenClaims is the identity embedded in issued tokens: the user id as
// the registered subject plus the account email.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// CredentialService hashes and verifies passwords and issues signed
// identity tokens. It is safe for concurrent use.
type CredentialService struct {
	secret []byte
	expiry time.Duration
}

// NewCredentialService creates a CredentialService with the given HMAC
// signing secret and token lifetime.
func NewCredentialService(secret string, expiry time.Duration) *CredentialService {
	return &CredentialService{secret: []byte(secret), expiry: expiry}
}

// HashPassword produces a salted bcrypt hash of the password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required: %w", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. The
// comparison is delegated to bcrypt's own compare primitive.
func (s *CredentialService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token asserting the given user identity, valid for
// the configured expiry.
func (s *CredentialService) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Email: email,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the user id and email
// it asserts. It matches middleware.TokenVerifier.
func (s *CredentialService) VerifyToken(tokenString string) (string, string, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Email, nil
}

// ParseToken verifies a token's signature and expiry and returns its
// claims.
func (s *CredentialService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", ErrInvalidToken)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
