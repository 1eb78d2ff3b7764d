package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeecare/hospital-api/internal/middleware"
	"github.com/zeecare/hospital-api/internal/model"
	authService "github.com/zeecare/hospital-api/internal/service/auth"
	doctorService "github.com/zeecare/hospital-api/internal/service/doctor"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/httputil"
)

const cookieMaxAge = 7 * 24 * 60 * 60

type Handler struct {
	auth    *authService.Service
	doctors *doctorService.Service
	authMW  *middleware.AuthMiddleware
}

func NewHandler(auth *authService.Service, doctors *doctorService.Service, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{auth: auth, doctors: doctors, authMW: authMW}
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("please fill the full form", err))
		return
	}

	user, err := h.auth.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	setSessionCookie(c, middleware.PatientCookie, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"message": "Patient registered",
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("please provide all details", err))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	cookie := middleware.PatientCookie
	if user.Role == model.RoleAdmin {
		cookie = middleware.AdminCookie
	}
	setSessionCookie(c, cookie, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"message": "Logged in successfully",
	})
}

func (h *Handler) LogoutPatient(c *gin.Context) {
	clearSessionCookie(c, middleware.PatientCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Patient logged out",
	})
}

func (h *Handler) LogoutAdmin(c *gin.Context) {
	clearSessionCookie(c, middleware.AdminCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin logged out",
	})
}

func (h *Handler) AddAdmin(c *gin.Context) {
	var req model.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("please fill the full form", err))
		return
	}

	user, err := h.auth.AddAdmin(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"message": "New admin registered",
	})
}

// Doctors feeds the booking form's doctor picker
func (h *Handler) Doctors(c *gin.Context) {
	doctors, err := h.doctors.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Persistence("failed to load doctors", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"doctors": doctors,
	})
}

func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("", nil))
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/user")
	{
		users.POST("/patient/register", h.RegisterPatient)
		users.POST("/login", h.Login)
		users.GET("/doctors", h.Doctors)
		users.GET("/patient/me", h.authMW.RequirePatient(), h.Me)
		users.GET("/logout/patient", h.authMW.RequirePatient(), h.LogoutPatient)
		users.GET("/admin/me", h.authMW.RequireAdmin(), h.Me)
		users.GET("/logout/admin", h.authMW.RequireAdmin(), h.LogoutAdmin)
		users.POST("/admin/addnew", h.authMW.RequireAdmin(), h.AddAdmin)
	}
}

func setSessionCookie(c *gin.Context, name, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, cookieMaxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}
