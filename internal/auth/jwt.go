package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// User is the authenticated principal acting on a request.
type User struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Imagen string `json:"imagen,omitempty"`
}

type Claims struct {
	Nombre string `json:"nombre"`
	Imagen string `json:"imagen,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 bearer tokens issued by the login service.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Sign issues a token for user. The login flow lives elsewhere; this is
// used by tooling and tests.
func (v *JWTVerifier) Sign(user User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Nombre: user.Nombre,
		Imagen: user.Imagen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (v *JWTVerifier) Parse(token string) (User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return User{}, ErrInvalidToken
	}
	return User{ID: claims.Subject, Nombre: claims.Nombre, Imagen: claims.Imagen}, nil
}
