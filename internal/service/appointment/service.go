package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
)

// Service owns the committed appointment collection and the post-creation
// status workflow. Records enter exclusively through Create, which the
// payment reconciler calls after the provider confirms payment.
type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

// Create commits a paid appointment. A duplicate settlement reference is not
// an error: the record committed by the earlier invocation is returned, so
// concurrent or repeated confirmations for one session stay single-shot.
func (s *Service) Create(ctx context.Context, apt *model.Appointment) (*model.Appointment, bool, error) {
	if err := validateAppointment(apt); err != nil {
		return nil, false, err
	}

	if apt.Status == "" {
		apt.Status = model.AppointmentStatusPending
	}

	payload, err := json.Marshal(apt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	evt := &model.OutboxEvent{
		EventType: model.EventAppointmentCreated,
		Payload:   payload,
	}

	if err := s.repo.Create(ctx, apt, evt); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			existing, getErr := s.repo.GetByPaymentID(ctx, apt.PaymentID)
			if getErr != nil {
				return nil, false, apperrors.Persistence("failed to load committed appointment", getErr)
			}
			return existing, true, nil
		}
		return nil, false, apperrors.Persistence("failed to create appointment", err)
	}

	return apt, false, nil
}

func (s *Service) GetByPaymentID(ctx context.Context, paymentID string) (*model.Appointment, error) {
	apt, err := s.repo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Persistence("failed to get appointment", err)
	}
	return apt, nil
}

// ListAll returns every committed appointment (admin view)
func (s *Service) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to list appointments", err)
	}
	return appointments, nil
}

// ListByPatient returns the committed appointments belonging to one patient
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list appointments", err)
	}
	return appointments, nil
}

// UpdateStatus sets the appointment status. Pending, Accepted and Rejected
// are all reachable from each other by admin write.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.IsValid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid status %q", status), nil)
	}

	apt, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Persistence("failed to update appointment status", err)
	}
	return apt, nil
}

// Delete removes an appointment permanently
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return apperrors.Persistence("failed to delete appointment", err)
	}
	return nil
}

func validateAppointment(apt *model.Appointment) error {
	switch {
	case apt.FirstName == "" || apt.LastName == "":
		return apperrors.Validation("patient name is required", nil)
	case apt.Email == "":
		return apperrors.Validation("email is required", nil)
	case apt.Phone == "":
		return apperrors.Validation("phone is required", nil)
	case apt.DOB.IsZero():
		return apperrors.Validation("date of birth is required", nil)
	case !apt.Gender.IsValid():
		return apperrors.Validation("gender must be Male or Female", nil)
	case apt.AppointmentDate.IsZero():
		return apperrors.Validation("appointment date is required", nil)
	case !apt.Department.IsValid():
		return apperrors.Validation(fmt.Sprintf("unknown department %q", apt.Department), nil)
	case apt.Address == "":
		return apperrors.Validation("address is required", nil)
	case apt.DoctorID == uuid.Nil:
		return apperrors.Validation("doctor id is required", nil)
	case apt.PatientID == uuid.Nil:
		return apperrors.Validation("patient id is required", nil)
	case apt.DoctorFirstName == "" || apt.DoctorLastName == "":
		return apperrors.Validation("doctor name snapshot is required", nil)
	case !apt.IsPaid:
		return apperrors.Validation("unpaid appointments cannot be persisted", nil)
	case apt.PaymentID == "":
		return apperrors.Validation("payment id is required", nil)
	}
	return nil
}
