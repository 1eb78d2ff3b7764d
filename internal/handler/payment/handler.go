package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/service/booking"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// Checkout validates the appointment payload and opens a provider session.
// The client is expected to navigate to the returned url.
func (h *Handler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("missing required fields", err))
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Success is the provider redirect target. A paid session commits the
// appointment and sends the patient to their appointments view; an unpaid
// one sends them back to the booking form.
func (h *Handler) Success(c *gin.Context) {
	sessionID := c.Query("session_id")

	_, err := h.service.ConfirmFromSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, booking.ErrPaymentIncomplete) {
			c.Redirect(http.StatusFound, h.service.FailureRedirectURL())
			return
		}
		httputil.RespondWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.service.SuccessRedirectURL())
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payment")
	{
		payments.POST("/checkout", h.Checkout)
		payments.GET("/success", h.Success)
	}
}
