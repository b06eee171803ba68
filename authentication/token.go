package authentication

import (
	"time"

	"github.com/MiladArbabi/aurora-baby-mvp/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// TokenValidity is the fixed lifetime of every minted token. There is no
// server-side revocation, validity is signature plus expiry alone.
const TokenValidity = time.Hour

var (
	ErrInvalidToken = errors.New("Invalid token")
)

type Claims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

type TokenService struct {
	Config *shared.AppConfig `inject:""`
}

func (s *TokenService) Mint(userId string) (string, error) {
	claims := &Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Config.JwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.Config.JwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserId == "" {
		return "", ErrInvalidToken
	}
	return claims.UserId, nil
}
