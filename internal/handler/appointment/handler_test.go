package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/email"
	"github.com/zeecare/hospital-api/internal/middleware"
	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
	appointmentService "github.com/zeecare/hospital-api/internal/service/appointment"
	authService "github.com/zeecare/hospital-api/internal/service/auth"
	"github.com/zeecare/hospital-api/internal/service/booking"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/logger"
	"github.com/zeecare/hospital-api/pkg/metrics"
	"github.com/zeecare/hospital-api/pkg/payment"
	"github.com/zeecare/hospital-api/pkg/security"
)

var testMetrics = metrics.New("appointment_handler_test")

type fakeAppointmentRepo struct {
	byID        map[uuid.UUID]*model.Appointment
	byPaymentID map[string]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:        make(map[uuid.UUID]*model.Appointment),
		byPaymentID: make(map[string]*model.Appointment),
	}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment, _ *model.OutboxEvent) error {
	if _, ok := r.byPaymentID[apt.PaymentID]; ok {
		return repository.ErrDuplicatePayment
	}
	apt.ID = uuid.New()
	stored := *apt
	r.byID[stored.ID] = &stored
	r.byPaymentID[stored.PaymentID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (r *fakeAppointmentRepo) GetByPaymentID(_ context.Context, paymentID string) (*model.Appointment, error) {
	apt, ok := r.byPaymentID[paymentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(r.byID))
	for _, apt := range r.byID {
		out = append(out, apt)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.byID {
		if apt.PatientID == patientID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	apt, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apt.Status = status
	return apt, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	apt, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byPaymentID, apt.PaymentID)
	delete(r.byID, id)
	return nil
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

type stubProvider struct{}

func (stubProvider) CreateCheckoutSession(_ context.Context, params *payment.CheckoutParams) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{ID: "cs_test", Metadata: params.Metadata}, nil
}

func (stubProvider) RetrieveCheckoutSession(context.Context, string) (*payment.CheckoutSession, error) {
	return nil, apperrors.NotFound("checkout session", nil)
}

type testEnv struct {
	router       *gin.Engine
	repo         *fakeAppointmentRepo
	patientToken string
	adminToken   string
	patientID    uuid.UUID
}

func newTestEnv(t *testing.T, directory booking.DoctorDirectory) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeAppointmentRepo()
	appointments := appointmentService.NewService(repo)

	auth := authService.NewService(nil, security.NewBcryptHasher(4), config.JWTConfig{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})

	bookingSvc := booking.NewService(
		stubProvider{},
		directory,
		appointments,
		email.NoopService{},
		config.URLConfig{Frontend: "http://localhost:5173", Backend: "http://localhost:4000"},
		testMetrics,
		logger.NewLogger(nil),
	)

	patientID := uuid.New()
	patientToken, err := auth.GenerateToken(&model.User{ID: patientID, Email: "jane@example.com", Role: model.RolePatient})
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(&model.User{ID: uuid.New(), Email: "admin@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(appointments, bookingSvc, middleware.NewAuthMiddleware(auth)).RegisterRoutes(r.Group("/api/v1"))

	return &testEnv{
		router:       r,
		repo:         repo,
		patientToken: patientToken,
		adminToken:   adminToken,
		patientID:    patientID,
	}
}

func (e *testEnv) do(method, path string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) patientCookie() *http.Cookie {
	return &http.Cookie{Name: middleware.PatientCookie, Value: e.patientToken}
}

func (e *testEnv) adminCookie() *http.Cookie {
	return &http.Cookie{Name: middleware.AdminCookie, Value: e.adminToken}
}

func (e *testEnv) seedAppointment(t *testing.T, patientID uuid.UUID, paymentID string) *model.Appointment {
	t.Helper()
	apt := &model.Appointment{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		Phone:           "5551234567",
		DOB:             time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:          model.GenderFemale,
		AppointmentDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Department:      model.DepartmentCardiology,
		Address:         "1 Main St",
		DoctorID:        uuid.New(),
		PatientID:       patientID,
		DoctorFirstName: "Gregory",
		DoctorLastName:  "House",
		IsPaid:          true,
		PaymentID:       paymentID,
		Status:          model.AppointmentStatusPending,
	}
	require.NoError(t, e.repo.Create(context.Background(), apt, nil))
	return apt
}

func TestAuthBoundaries(t *testing.T) {
	env := newTestEnv(t, &stubDirectory{})

	t.Run("no session is a 401", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/appointment/myappointments", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("patient session cannot reach admin routes", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/appointment/getall", nil,
			&http.Cookie{Name: middleware.AdminCookie, Value: env.patientToken})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("bearer token works without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointment/myappointments", nil)
		req.Header.Set("Authorization", "Bearer "+env.patientToken)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPostEndpoint(t *testing.T) {
	doctorID := uuid.New()
	env := newTestEnv(t, &stubDirectory{doctor: &model.Doctor{
		ID: doctorID, FirstName: "Gregory", LastName: "House", Department: model.DepartmentCardiology,
	}})

	body, _ := json.Marshal(map[string]string{
		"firstName":        "Jane",
		"lastName":         "Doe",
		"email":            "jane@example.com",
		"phone":            "5551234567",
		"dob":              "1990-04-12",
		"gender":           "Female",
		"appointment_date": "2026-10-01",
		"department":       "Cardiology",
		"doctor_firstName": "Gregory",
		"doctor_lastName":  "House",
		"address":          "1 Main St",
	})

	w := env.do(http.MethodPost, "/api/v1/appointment/post", body, env.patientCookie())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success            bool                      `json:"success"`
		AppointmentDetails *model.AppointmentDetails `json:"appointmentDetails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, doctorID, resp.AppointmentDetails.DoctorID)
	assert.Equal(t, env.patientID, resp.AppointmentDetails.PatientID)

	// Nothing persisted at this stage.
	assert.Empty(t, env.repo.byID)
}

func TestConfirmEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubDirectory{})

	body, _ := json.Marshal(map[string]interface{}{
		"firstName":        "Jane",
		"lastName":         "Doe",
		"email":            "jane@example.com",
		"phone":            "5551234567",
		"dob":              "1990-04-12",
		"gender":           "Female",
		"appointment_date": "2026-10-01",
		"department":       "Cardiology",
		"doctor":           map[string]string{"firstName": "Gregory", "lastName": "House"},
		"address":          "1 Main St",
		"doctorId":         uuid.New().String(),
		"paymentId":        "pi_pull_1",
	})

	w := env.do(http.MethodPost, "/api/v1/appointment/confirm", body, env.patientCookie())
	require.Equal(t, http.StatusCreated, w.Code)

	// Replay commits nothing new.
	w = env.do(http.MethodPost, "/api/v1/appointment/confirm", body, env.patientCookie())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, env.repo.byID, 1)
}

func TestMyAppointmentsEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubDirectory{})
	env.seedAppointment(t, env.patientID, "pi_mine")
	env.seedAppointment(t, uuid.New(), "pi_other")

	w := env.do(http.MethodGet, "/api/v1/appointment/myappointments", nil, env.patientCookie())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointments []*model.Appointment `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "pi_mine", resp.Appointments[0].PaymentID)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubDirectory{})
	apt := env.seedAppointment(t, env.patientID, "pi_1")

	t.Run("admin updates status", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "Accepted"})
		w := env.do(http.MethodPut, "/api/v1/appointment/update/"+apt.ID.String(), body, env.adminCookie())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.AppointmentStatusAccepted, env.repo.byID[apt.ID].Status)
	})

	t.Run("invalid status is a 400", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "Cancelled"})
		w := env.do(http.MethodPut, "/api/v1/appointment/update/"+apt.ID.String(), body, env.adminCookie())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "Accepted"})
		w := env.do(http.MethodPut, "/api/v1/appointment/update/"+uuid.New().String(), body, env.adminCookie())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubDirectory{})
	apt := env.seedAppointment(t, env.patientID, "pi_1")

	w := env.do(http.MethodDelete, "/api/v1/appointment/delete/"+apt.ID.String(), nil, env.adminCookie())
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, "/api/v1/appointment/delete/"+apt.ID.String(), nil, env.adminCookie())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
