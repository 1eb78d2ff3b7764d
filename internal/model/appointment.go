package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusAccepted AppointmentStatus = "Accepted"
	AppointmentStatusRejected AppointmentStatus = "Rejected"
)

// IsValid reports whether s is one of the three admin-settable statuses.
// All three are mutually reachable by admin write; there is no forward-only
// transition rule.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type Department string

const (
	DepartmentPediatrics      Department = "Pediatrics"
	DepartmentOrthopedics     Department = "Orthopedics"
	DepartmentCardiology      Department = "Cardiology"
	DepartmentNeurology       Department = "Neurology"
	DepartmentOncology        Department = "Oncology"
	DepartmentRadiology       Department = "Radiology"
	DepartmentPhysicalTherapy Department = "Physical Therapy"
	DepartmentDermatology     Department = "Dermatology"
	DepartmentENT             Department = "ENT"
)

var Departments = []Department{
	DepartmentPediatrics,
	DepartmentOrthopedics,
	DepartmentCardiology,
	DepartmentNeurology,
	DepartmentOncology,
	DepartmentRadiology,
	DepartmentPhysicalTherapy,
	DepartmentDermatology,
	DepartmentENT,
}

func (d Department) IsValid() bool {
	for _, dep := range Departments {
		if d == dep {
			return true
		}
	}
	return false
}

// DateOnly is the wire format for dob and appointment_date fields
const DateOnly = "2006-01-02"

// Appointment is persisted only after the payment provider confirms the
// session as paid; every stored row has IsPaid=true and a unique PaymentID.
// DoctorFirstName/DoctorLastName are a snapshot captured at commit time and
// may diverge from the live doctor record afterwards; display logic should
// prefer the snapshot.
type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	FirstName       string            `db:"first_name" json:"firstName"`
	LastName        string            `db:"last_name" json:"lastName"`
	Email           string            `db:"email" json:"email"`
	Phone           string            `db:"phone" json:"phone"`
	DOB             time.Time         `db:"dob" json:"dob"`
	Gender          Gender            `db:"gender" json:"gender"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Department      Department        `db:"department" json:"department"`
	Address         string            `db:"address" json:"address"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctorId"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patientId"`
	DoctorFirstName string            `db:"doctor_first_name" json:"doctor_firstName"`
	DoctorLastName  string            `db:"doctor_last_name" json:"doctor_lastName"`
	IsPaid          bool              `db:"is_paid" json:"isPaid"`
	PaymentID       string            `db:"payment_id" json:"paymentId"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// CheckoutRequest is the candidate appointment payload accepted at checkout
// time. Dates travel as YYYY-MM-DD strings; doctor name hints are optional
// and only used as a fallback at confirmation time.
type CheckoutRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	DOB             string `json:"dob" binding:"required,dateonly"`
	Gender          string `json:"gender" binding:"required,gender"`
	AppointmentDate string `json:"appointment_date" binding:"required,dateonly"`
	Department      string `json:"department" binding:"required,department"`
	Address         string `json:"address" binding:"required"`
	DoctorID        string `json:"doctorId" binding:"required"`
	PatientID       string `json:"patientId" binding:"required"`
	DoctorFirstName string `json:"doctor_firstName"`
	DoctorLastName  string `json:"doctor_lastName"`
}

// CheckoutResponse carries the provider session id and redirect target
type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PostAppointmentRequest is the pre-payment details collection payload; the
// doctor is addressed by name and department and resolved to an id.
type PostAppointmentRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	DOB             string `json:"dob" binding:"required,dateonly"`
	Gender          string `json:"gender" binding:"required,gender"`
	AppointmentDate string `json:"appointment_date" binding:"required,dateonly"`
	Department      string `json:"department" binding:"required,department"`
	DoctorFirstName string `json:"doctor_firstName" binding:"required"`
	DoctorLastName  string `json:"doctor_lastName" binding:"required"`
	Address         string `json:"address" binding:"required"`
}

// DoctorName is the denormalized snapshot shape used on the wire
type DoctorName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AppointmentDetails echoes the validated payload back to the client so it
// can proceed to payment; nothing is persisted at this stage.
type AppointmentDetails struct {
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	DOB             string     `json:"dob"`
	Gender          string     `json:"gender"`
	AppointmentDate string     `json:"appointment_date"`
	Department      string     `json:"department"`
	Doctor          DoctorName `json:"doctor"`
	Address         string     `json:"address"`
	DoctorID        uuid.UUID  `json:"doctorId"`
	PatientID       uuid.UUID  `json:"patientId"`
}

// ConfirmAppointmentRequest is the pull-style commit path: the client posts
// the full payload plus the settlement reference after the provider reports
// success.
type ConfirmAppointmentRequest struct {
	FirstName       string     `json:"firstName" binding:"required"`
	LastName        string     `json:"lastName" binding:"required"`
	Email           string     `json:"email" binding:"required,email"`
	Phone           string     `json:"phone" binding:"required"`
	DOB             string     `json:"dob" binding:"required,dateonly"`
	Gender          string     `json:"gender" binding:"required,gender"`
	AppointmentDate string     `json:"appointment_date" binding:"required,dateonly"`
	Department      string     `json:"department" binding:"required,department"`
	Doctor          DoctorName `json:"doctor"`
	Address         string     `json:"address" binding:"required"`
	DoctorID        string     `json:"doctorId" binding:"required"`
	PatientID       string     `json:"patientId"`
	PaymentID       string     `json:"paymentId" binding:"required"`
}

// UpdateStatusRequest is the admin status mutation body
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
