package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "tienda/internal/core/context"
)

func newAdminRouter(user *appctx.UserContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
			c.Next()
		})
	}
	router.DELETE("/protected", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	router := newAdminRouter(&appctx.UserContext{UserID: "u1", Username: "admin", IsAdmin: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	router := newAdminRouter(&appctx.UserContext{UserID: "u2", Username: "cajero", IsAdmin: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireAdmin_RejectsAnonymous(t *testing.T) {
	router := newAdminRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
