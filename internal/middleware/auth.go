package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zeecare/hospital-api/internal/model"
	authService "github.com/zeecare/hospital-api/internal/service/auth"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/httputil"
)

// Cookie names the SPA sets per role
const (
	PatientCookie = "patientToken"
	AdminCookie   = "adminToken"

	ContextClaims = "authClaims"
)

type AuthMiddleware struct {
	authService *authService.Service
}

func NewAuthMiddleware(svc *authService.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: svc}
}

// RequirePatient authenticates a patient session and injects its claims
func (m *AuthMiddleware) RequirePatient() gin.HandlerFunc {
	return m.require(PatientCookie, model.RolePatient)
}

// RequireAdmin authenticates an admin session and injects its claims
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.require(AdminCookie, model.RoleAdmin)
}

func (m *AuthMiddleware) require(cookieName string, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("authentication required", nil))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized("invalid token", err))
			c.Abort()
			return
		}

		if claims.Role != role {
			httputil.RespondWithError(c, apperrors.Forbidden("", nil))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// Claims returns the authenticated identity injected by RequirePatient or
// RequireAdmin
func Claims(c *gin.Context) (*model.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
