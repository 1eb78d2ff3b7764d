package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/model"
)

// Sentinel errors the service layer maps onto the error taxonomy
var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePayment is returned when an insert collides on the unique
	// payment_id index; the caller treats it as "already committed".
	ErrDuplicatePayment = errors.New("appointment already exists for payment")
	ErrDuplicateEmail   = errors.New("email already registered")
)

type AppointmentRepository interface {
	// Create inserts a committed appointment; evt, when non-nil, is written
	// in the same transaction (transactional outbox).
	Create(ctx context.Context, apt *model.Appointment, evt *model.OutboxEvent) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string, role model.Role) (*model.User, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	FindDoctorsByName(ctx context.Context, firstName, lastName string, department model.Department) ([]*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, evt *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
