package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/email"
	"github.com/zeecare/hospital-api/internal/model"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/logger"
	"github.com/zeecare/hospital-api/pkg/metrics"
	"github.com/zeecare/hospital-api/pkg/payment"
)

// ConsultationFee is the flat price per appointment in the smallest
// currency unit, regardless of department.
const (
	ConsultationFee = 5000
	feeCurrency     = "usd"
)

// ErrPaymentIncomplete signals a provider session that is not paid; the
// caller redirects back to the booking form instead of erroring.
var ErrPaymentIncomplete = errors.New("payment not completed")

// DoctorDirectory is the read-only doctor lookup the booking flow consumes
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	ResolveByName(ctx context.Context, firstName, lastName string, department model.Department) (*model.Doctor, error)
}

// AppointmentStore materializes committed appointments exactly once per
// settlement reference. The bool result reports an already-committed record.
type AppointmentStore interface {
	Create(ctx context.Context, apt *model.Appointment) (*model.Appointment, bool, error)
}

// Service implements the two-phase booking protocol: checkout creates a
// provider session carrying the pending appointment as opaque metadata, and
// confirmation materializes the record only after the provider reports the
// session as paid.
type Service struct {
	provider payment.Provider
	doctors  DoctorDirectory
	store    AppointmentStore
	mailer   email.Service
	urls     config.URLConfig
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	provider payment.Provider,
	doctors DoctorDirectory,
	store AppointmentStore,
	mailer email.Service,
	urls config.URLConfig,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		provider: provider,
		doctors:  doctors,
		store:    store,
		mailer:   mailer,
		urls:     urls,
		metrics:  m,
		logger:   l,
	}
}

// PostAppointment validates the pre-payment details and resolves the doctor
// by name and department. Nothing is persisted; the caller proceeds to
// checkout with the returned details.
func (s *Service) PostAppointment(ctx context.Context, patientID uuid.UUID, req *model.PostAppointmentRequest) (*model.AppointmentDetails, error) {
	if !model.Gender(req.Gender).IsValid() {
		return nil, apperrors.Validation("gender must be Male or Female", nil)
	}
	department := model.Department(req.Department)
	if !department.IsValid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown department %q", req.Department), nil)
	}
	if _, err := parseDate(req.DOB); err != nil {
		return nil, err
	}
	if _, err := parseDate(req.AppointmentDate); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.ResolveByName(ctx, req.DoctorFirstName, req.DoctorLastName, department)
	if err != nil {
		return nil, err
	}

	return &model.AppointmentDetails{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             req.DOB,
		Gender:          req.Gender,
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		Doctor: model.DoctorName{
			FirstName: doctor.FirstName,
			LastName:  doctor.LastName,
		},
		Address:   req.Address,
		DoctorID:  doctor.ID,
		PatientID: patientID,
	}, nil
}

// Checkout validates the candidate appointment, verifies the doctor exists,
// and creates a provider session whose metadata carries the full payload.
// The only side effect is the outbound provider call.
func (s *Service) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	doctorID, err := parseID(req.DoctorID, "doctorId")
	if err != nil {
		return nil, err
	}
	if _, err := parseID(req.PatientID, "patientId"); err != nil {
		return nil, err
	}
	if !model.Gender(req.Gender).IsValid() {
		return nil, apperrors.Validation("gender must be Male or Female", nil)
	}
	if !model.Department(req.Department).IsValid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown department %q", req.Department), nil)
	}
	if _, err := parseDate(req.DOB); err != nil {
		return nil, err
	}
	if _, err := parseDate(req.AppointmentDate); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	// Carry fresh directory names as fallback hints so confirmation can
	// still resolve the snapshot if the doctor is removed in the interim.
	if req.DoctorFirstName == "" {
		req.DoctorFirstName = doctor.FirstName
	}
	if req.DoctorLastName == "" {
		req.DoctorLastName = doctor.LastName
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, &payment.CheckoutParams{
		Amount:      ConsultationFee,
		Currency:    feeCurrency,
		ProductName: fmt.Sprintf("Appointment - %s", req.Department),
		SuccessURL:  s.urls.Backend + "/api/v1/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.urls.Frontend + "/appointment",
		Metadata:    metadataFromRequest(req),
	})
	if err != nil {
		return nil, apperrors.PaymentProvider("checkout failed", err)
	}

	s.metrics.CheckoutSessionsCreated.Inc()
	return &model.CheckoutResponse{ID: sess.ID, URL: sess.URL}, nil
}

// ConfirmFromSession is the provider-callback entry path. It is safe to
// invoke any number of times for the same session: at most one appointment
// exists per settlement reference, and replays resolve to that record.
func (s *Service) ConfirmFromSession(ctx context.Context, sessionID string) (*model.Appointment, error) {
	if sessionID == "" {
		return nil, apperrors.Validation("session_id is required", nil)
	}

	sess, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NotFound("checkout session", err)
	}

	if sess.PaymentStatus != payment.StatusPaid {
		s.metrics.FailedPayments.Inc()
		return nil, ErrPaymentIncomplete
	}
	if sess.PaymentIntentID == "" {
		return nil, apperrors.PaymentProvider("session has no settlement reference", nil)
	}

	apt, err := appointmentFromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}

	// Doctor resolution strictly precedes record creation. The directory is
	// authoritative; checkout-time name hints only cover a doctor removed
	// between checkout and confirmation.
	firstName, lastName := sess.Metadata[metaDoctorFirstName], sess.Metadata[metaDoctorLastName]
	doctor, err := s.doctors.GetDoctor(ctx, apt.DoctorID)
	switch {
	case err == nil:
		firstName, lastName = doctor.FirstName, doctor.LastName
	case apperrors.IsCode(err, apperrors.ErrNotFound):
		// fall back to the metadata hints
	default:
		return nil, err
	}
	if firstName == "" || lastName == "" {
		return nil, apperrors.UnresolvableReference("unable to resolve doctor name", nil)
	}

	apt.DoctorFirstName = firstName
	apt.DoctorLastName = lastName
	apt.IsPaid = true
	apt.PaymentID = sess.PaymentIntentID
	apt.Status = model.AppointmentStatusPending

	return s.commit(ctx, apt)
}

// Confirm is the pull-style commit path: the client posts the full payload
// plus the settlement reference. Idempotent by the same payment_id rule.
func (s *Service) Confirm(ctx context.Context, patientID uuid.UUID, req *model.ConfirmAppointmentRequest) (*model.Appointment, error) {
	if req.Doctor.FirstName == "" || req.Doctor.LastName == "" {
		return nil, apperrors.Validation("doctor details missing", nil)
	}

	doctorID, err := parseID(req.DoctorID, "doctorId")
	if err != nil {
		return nil, err
	}
	if req.PatientID != "" {
		if patientID, err = parseID(req.PatientID, "patientId"); err != nil {
			return nil, err
		}
	}
	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             dob,
		Gender:          model.Gender(req.Gender),
		AppointmentDate: date,
		Department:      model.Department(req.Department),
		Address:         req.Address,
		DoctorID:        doctorID,
		PatientID:       patientID,
		DoctorFirstName: req.Doctor.FirstName,
		DoctorLastName:  req.Doctor.LastName,
		IsPaid:          true,
		PaymentID:       req.PaymentID,
		Status:          model.AppointmentStatusPending,
	}

	return s.commit(ctx, apt)
}

func (s *Service) commit(ctx context.Context, apt *model.Appointment) (*model.Appointment, error) {
	committed, duplicate, err := s.store.Create(ctx, apt)
	if err != nil {
		return nil, err
	}
	if duplicate {
		s.metrics.DuplicateConfirmations.Inc()
		return committed, nil
	}

	s.metrics.AppointmentsCommitted.Inc()

	if s.mailer != nil {
		if err := s.mailer.SendBookingConfirmation(ctx, committed); err != nil {
			s.logger.Error(err, "failed to send booking confirmation",
				"appointment_id", committed.ID.String())
		}
	}

	return committed, nil
}

// FailureRedirectURL is where a patient lands after an unpaid session
func (s *Service) FailureRedirectURL() string {
	return s.urls.Frontend + "/appointment?status=failed"
}

// SuccessRedirectURL is the patient-facing appointments view after commit
func (s *Service) SuccessRedirectURL() string {
	return s.urls.Frontend + "/myappointments?paid=true"
}
