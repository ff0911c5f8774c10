package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/form3tech-oss/jwt-go"
)

const tokenLifetime = 72 * time.Hour

var ErrBadToken = errors.New("invalid token")

// Issue signs a token carrying the user id.
func Issue(secret, userID string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(tokenLifetime).Unix()
	return token.SignedString([]byte(secret))
}

// UserID reads the user id out of a token the jwt middleware already verified.
func UserID(token *jwt.Token) (string, error) {
	if token == nil {
		return "", ErrBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadToken
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", ErrBadToken
	}
	return id, nil
}

// Parse verifies a raw token, as sent over the socket, and returns its user id.
func Parse(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrBadToken
	}
	return UserID(token)
}
