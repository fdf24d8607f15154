package util

import (
	"errors"
	"portfolio_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	PersonID uint             `json:"person_id"`
	UID      string           `json:"uid"`
	Role     model.PersonRole `json:"role"`
	Email    string           `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(person *model.Person, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		PersonID: person.ID,
		UID:      person.UID,
		Role:     person.Role,
		Email:    person.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   person.UID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequestUserKey 依次从JWT声明、userId查询参数、X-User-Id请求头解析用户
func RequestUserKey(c *gin.Context) string {
	if claims := GetUserFromContext(c); claims != nil && claims.UID != "" {
		return claims.UID
	}
	if uid := c.Query("userId"); uid != "" {
		return uid
	}
	return c.GetHeader(HeaderUserID)
}
