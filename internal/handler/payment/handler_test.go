package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/email"
	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/service/booking"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/logger"
	"github.com/zeecare/hospital-api/pkg/metrics"
	"github.com/zeecare/hospital-api/pkg/payment"
)

var testMetrics = metrics.New("payment_handler_test")

type stubProvider struct {
	session *payment.CheckoutSession
}

func (p *stubProvider) CreateCheckoutSession(_ context.Context, params *payment.CheckoutParams) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{
		ID:       "cs_test_123",
		URL:      "https://checkout.example.com/cs_test_123",
		Metadata: params.Metadata,
	}, nil
}

func (p *stubProvider) RetrieveCheckoutSession(_ context.Context, id string) (*payment.CheckoutSession, error) {
	if p.session == nil || p.session.ID != id {
		return nil, apperrors.NotFound("checkout session", nil)
	}
	return p.session, nil
}

type stubDirectory struct {
	doctor *model.Doctor
}

func (d *stubDirectory) GetDoctor(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d.doctor == nil || d.doctor.ID != id {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d.doctor, nil
}

func (d *stubDirectory) ResolveByName(_ context.Context, _, _ string, _ model.Department) (*model.Doctor, error) {
	if d.doctor == nil {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d.doctor, nil
}

type stubStore struct {
	byPaymentID map[string]*model.Appointment
}

func (s *stubStore) Create(_ context.Context, apt *model.Appointment) (*model.Appointment, bool, error) {
	if existing, ok := s.byPaymentID[apt.PaymentID]; ok {
		return existing, true, nil
	}
	stored := *apt
	stored.ID = uuid.New()
	if s.byPaymentID == nil {
		s.byPaymentID = make(map[string]*model.Appointment)
	}
	s.byPaymentID[apt.PaymentID] = &stored
	return &stored, false, nil
}

func newTestRouter(provider payment.Provider, directory booking.DoctorDirectory, store booking.AppointmentStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(
		provider,
		directory,
		store,
		email.NoopService{},
		config.URLConfig{Frontend: "http://localhost:5173", Backend: "http://localhost:4000"},
		testMetrics,
		logger.NewLogger(nil),
	)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func checkoutBody(doctorID, patientID uuid.UUID) []byte {
	body, _ := json.Marshal(map[string]string{
		"firstName":        "Jane",
		"lastName":         "Doe",
		"email":            "jane@example.com",
		"phone":            "5551234567",
		"dob":              "1990-04-12",
		"gender":           "Female",
		"appointment_date": "2026-10-01",
		"department":       "Cardiology",
		"address":          "1 Main St",
		"doctorId":         doctorID.String(),
		"patientId":        patientID.String(),
	})
	return body
}

func TestCheckoutEndpoint(t *testing.T) {
	doctorID := uuid.New()
	directory := &stubDirectory{doctor: &model.Doctor{
		ID: doctorID, FirstName: "Gregory", LastName: "House", Department: model.DepartmentCardiology,
	}}

	t.Run("returns session id and url", func(t *testing.T) {
		r := newTestRouter(&stubProvider{}, directory, &stubStore{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/checkout",
			bytes.NewReader(checkoutBody(doctorID, uuid.New())))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.CheckoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "cs_test_123", resp.ID)
		assert.NotEmpty(t, resp.URL)
	})

	t.Run("missing fields is a 400", func(t *testing.T) {
		r := newTestRouter(&stubProvider{}, directory, &stubStore{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/checkout",
			bytes.NewReader([]byte(`{"firstName":"Jane"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown doctor is a 404", func(t *testing.T) {
		r := newTestRouter(&stubProvider{}, &stubDirectory{}, &stubStore{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/checkout",
			bytes.NewReader(checkoutBody(uuid.New(), uuid.New())))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSuccessEndpoint(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	directory := &stubDirectory{doctor: &model.Doctor{
		ID: doctorID, FirstName: "Gregory", LastName: "House", Department: model.DepartmentCardiology,
	}}

	sessionMetadata := map[string]string{
		"firstName":        "Jane",
		"lastName":         "Doe",
		"email":            "jane@example.com",
		"phone":            "5551234567",
		"dob":              "1990-04-12",
		"gender":           "Female",
		"appointment_date": "2026-10-01",
		"department":       "Cardiology",
		"address":          "1 Main St",
		"doctorId":         doctorID.String(),
		"patientId":        patientID.String(),
	}

	t.Run("paid session commits and redirects to appointments", func(t *testing.T) {
		provider := &stubProvider{session: &payment.CheckoutSession{
			ID:              "cs_test_123",
			PaymentStatus:   payment.StatusPaid,
			PaymentIntentID: "pi_abc",
			Metadata:        sessionMetadata,
		}}
		store := &stubStore{}
		r := newTestRouter(provider, directory, store)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/success?session_id=cs_test_123", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:5173/myappointments?paid=true", w.Header().Get("Location"))
		assert.Len(t, store.byPaymentID, 1)
	})

	t.Run("unpaid session redirects back to booking form", func(t *testing.T) {
		provider := &stubProvider{session: &payment.CheckoutSession{
			ID:            "cs_test_123",
			PaymentStatus: payment.StatusUnpaid,
			Metadata:      sessionMetadata,
		}}
		store := &stubStore{}
		r := newTestRouter(provider, directory, store)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/success?session_id=cs_test_123", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:5173/appointment?status=failed", w.Header().Get("Location"))
		assert.Empty(t, store.byPaymentID)
	})

	t.Run("missing session id is a 400", func(t *testing.T) {
		r := newTestRouter(&stubProvider{}, directory, &stubStore{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/success", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		r := newTestRouter(&stubProvider{}, directory, &stubStore{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/success?session_id=cs_missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
