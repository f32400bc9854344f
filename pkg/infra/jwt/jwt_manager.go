package jwt

import (
	"errors"
	"time"

	"github.com/autoshield/autoshield/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// tokenSubject marks tokens minted by this service. Validation does not
// pin it; the signature alone decides acceptance.
const tokenSubject = "autoshield-admin"

// Claims carries the registered claim set; the admin token needs nothing else.
type Claims struct {
	jwt.RegisteredClaims
}

//go:generate mockery --name=Manager --dir=. --output=mocks/ --filename=jwt_manager_mock.go --case=underscore --with-expecter

// Manager signs and validates the bearer tokens that guard the admin API.
type Manager interface {
	CreateToken() (string, error)
	ValidateToken(tokenString string) error
}

type manager struct {
	secret []byte
}

func NewJwtManager(config *config.ServerConfig) Manager {
	return &manager{secret: []byte(config.SecretKey)}
}

// CreateToken mints a non-expiring HS256 token. Rotating the shared secret
// is the only way to revoke tokens already handed out.
func (m *manager) CreateToken() (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  tokenSubject,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *manager) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case err != nil:
		return ErrInvalidToken
	case !token.Valid:
		return ErrInvalidToken
	}
	return nil
}

// keyFunc pins the algorithm to HMAC before handing out the secret, so a
// token carrying alg=none or an RSA header is rejected outright.
func (m *manager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return m.secret, nil
}
