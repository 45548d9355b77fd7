package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contractpro/contractpro/internal/model"
)

type TokenService interface {
	Generate(user *model.User) (string, error)
	Validate(tokenStr string) (string, error)
}

type jwtService struct {
	secret     string
	expiryTime time.Duration
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: secret, expiryTime: expiry}
}

func (s *jwtService) Generate(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.expiryTime).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})

	if err != nil || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	return sub, nil
}
