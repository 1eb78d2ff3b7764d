package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/middleware"
	"github.com/zeecare/hospital-api/internal/model"
	appointmentService "github.com/zeecare/hospital-api/internal/service/appointment"
	"github.com/zeecare/hospital-api/internal/service/booking"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/httputil"
)

type Handler struct {
	appointments *appointmentService.Service
	booking      *booking.Service
	auth         *middleware.AuthMiddleware
}

func NewHandler(appointments *appointmentService.Service, bookingSvc *booking.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		appointments: appointments,
		booking:      bookingSvc,
		auth:         auth,
	}
}

// Post collects and validates appointment details ahead of payment; the
// record is not persisted until the provider confirms the session.
func (h *Handler) Post(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("", nil))
		return
	}

	var req model.PostAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("please fill all details", err))
		return
	}

	details, err := h.booking.PostAppointment(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"appointmentDetails": details,
		"message":            "Proceed to payment",
	})
}

// Confirm commits an appointment after the client observed a successful
// payment; idempotent per settlement reference.
func (h *Handler) Confirm(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("", nil))
		return
	}

	var req model.ConfirmAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("missing required fields", err))
		return
	}

	apt, err := h.booking.Confirm(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"appointment": apt,
		"message":     "Appointment booked successfully",
	})
}

func (h *Handler) GetAll(c *gin.Context) {
	appointments, err := h.appointments.ListAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"appointments": appointments,
	})
}

func (h *Handler) MyAppointments(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("", nil))
		return
	}

	appointments, err := h.appointments.ListByPatient(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"appointments": appointments,
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id", err))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("status is required", err))
		return
	}

	if _, err := h.appointments.UpdateStatus(c.Request.Context(), id, model.AppointmentStatus(req.Status)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment status updated",
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id", err))
		return
	}

	if err := h.appointments.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment deleted",
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointment")
	{
		appointments.POST("/post", h.auth.RequirePatient(), h.Post)
		appointments.POST("/confirm", h.auth.RequirePatient(), h.Confirm)
		appointments.GET("/myappointments", h.auth.RequirePatient(), h.MyAppointments)
		appointments.GET("/getall", h.auth.RequireAdmin(), h.GetAll)
		appointments.PUT("/update/:id", h.auth.RequireAdmin(), h.UpdateStatus)
		appointments.DELETE("/delete/:id", h.auth.RequireAdmin(), h.Delete)
	}
}
