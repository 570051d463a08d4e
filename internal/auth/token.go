package auth

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expired claims.
var ErrInvalidToken = errors.New("invalid token")

type accountClaims struct {
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the session tokens that bind a request
// to one account id. There is no server-side session state: possessing a
// valid token IS being authenticated, and logout is a client-side discard.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer with an explicit secret and TTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// NewTokenIssuerFromEnv configures the issuer from JWT_SECRET and JWT_TTL.
func NewTokenIssuerFromEnv() *TokenIssuer {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Verificar si estamos en producción
		if os.Getenv("ENV") == "production" || os.Getenv("ENVIRONMENT") == "production" {
			log.Fatal("❌ CRITICAL: JWT_SECRET must be set in production environment")
		}
		log.Println("⚠️ WARNING: Using default JWT secret (development only)")
		secret = "dev-secret-change-me-0123456789abcdef"
	}

	// Validar longitud mínima del secret
	if len(secret) < 32 {
		log.Fatalf("❌ CRITICAL: JWT_SECRET must be at least 32 characters long (current: %d)", len(secret))
	}

	ttl := 24 * time.Hour
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil || dur <= 0 {
			log.Printf("invalid JWT_TTL=%q, using default %s", raw, ttl)
		} else {
			ttl = dur
		}
	}

	return NewTokenIssuer([]byte(secret), ttl)
}

// Issue signs a token bound to the account id. The handle rides along for
// logging; the jti makes every token distinct.
func (ti *TokenIssuer) Issue(accountID int64, handle string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ti.ttl)
	claims := accountClaims{
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	return signed, expires, err
}

// Verify checks the signature and expiry and extracts the account id.
func (ti *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := &accountClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return accountID, nil
}
