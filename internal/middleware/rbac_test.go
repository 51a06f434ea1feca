package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

func performRBAC(claims *models.JWTClaims, roles ...models.UserRole) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected",
		func(c *gin.Context) {
			if claims != nil {
				c.Set(ContextUserKey, claims)
			}
		},
		RequireRoles(roles...),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return rec
}

func TestRequireRolesMissingClaims(t *testing.T) {
	rec := performRBAC(nil, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesAllowed(t *testing.T) {
	claims := &models.JWTClaims{UserID: "usr-1", Role: models.RoleManager, Branch: models.BranchKothavara}
	rec := performRBAC(claims, models.RoleAdmin, models.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidden(t *testing.T) {
	claims := &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent, Branch: models.BranchKothavara}
	rec := performRBAC(claims, models.RoleAdmin, models.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
