package middleware

import (
	"net/http"
	"net/http/httptest"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, uid string, role model.PersonRole) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.Person{BaseModel: model.BaseModel{ID: 7}, UID: uid, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		uid := ""
		if claims := util.GetUserFromContext(c); claims != nil {
			uid = claims.UID
		}
		c.String(http.StatusOK, uid)
	})
	r.GET("/x", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	src := TokenSource{Secret: testSecret, CookieName: "jwt_portfolio"}
	r := newRouter(AuthMiddleware(src))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "amy", model.RoleStudent))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "amy", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_portfolio", Value: tokenFor(t, "bob", model.RoleStudent)})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "bob", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	r := newRouter(AuthMiddleware(TokenSource{Secret: "other-secret"}))

	req := httptest.NewRequest(http.MethodGet, "/x?token="+tokenFor(t, "amy", model.RoleStudent), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(TokenSource{Secret: testSecret}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x?token="+tokenFor(t, "amy", model.RoleStudent), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "amy", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	src := TokenSource{Secret: testSecret}
	r := newRouter(AuthMiddleware(src), RoleMiddleware(model.RoleTeacher))

	cases := []struct {
		role model.PersonRole
		want int
	}{
		{model.RoleStudent, http.StatusForbidden},
		{model.RoleTeacher, http.StatusOK},
		{model.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u", tc.role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, string(tc.role))
	}
}
