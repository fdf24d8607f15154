package util

import (
	"net/http"
	"net/http/httptest"
	"portfolio_backend/internal/model"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	p := &model.Person{BaseModel: model.BaseModel{ID: 3}, UID: "amy", Email: "amy@example.com", Role: model.RoleTeacher}

	token, err := GenerateJWT(p, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.PersonID)
	assert.Equal(t, "amy", claims.UID)
	assert.Equal(t, model.RoleTeacher, claims.Role)
	assert.Equal(t, "amy", claims.Subject)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(p, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestRequestUserKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(target string, header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		if header != "" {
			c.Request.Header.Set(HeaderUserID, header)
		}
		return c
	}

	c := newCtx("/x?userId=q", "h")
	c.Set(ContextUserKey, &Claims{UID: "jwt"})
	assert.Equal(t, "jwt", RequestUserKey(c))

	assert.Equal(t, "q", RequestUserKey(newCtx("/x?userId=q", "h")))
	assert.Equal(t, "h", RequestUserKey(newCtx("/x", "h")))
	assert.Empty(t, RequestUserKey(newCtx("/x", "")))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("5", 10, 1, 100))
	assert.Equal(t, 10, ParseIntDefault("abc", 10, 1, 100))
	assert.Equal(t, 10, ParseIntDefault("0", 10, 1, 100))
	assert.Equal(t, 10, ParseIntDefault("101", 10, 1, 100))
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("-1"))
}
