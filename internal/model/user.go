package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a system user of any role. Doctor-role users carry a
// department; the booking core reads them through the Doctor projection.
type User struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"firstName"`
	LastName         string     `db:"last_name" json:"lastName"`
	Email            string     `db:"email" json:"email"`
	Phone            string     `db:"phone" json:"phone"`
	DOB              *time.Time `db:"dob" json:"dob,omitempty"`
	Gender           Gender     `db:"gender" json:"gender"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Role             Role       `db:"role" json:"role"`
	DoctorDepartment *string    `db:"doctor_department" json:"doctorDepartment,omitempty"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Doctor is the read-only identity projection the booking core consumes
type Doctor struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	FirstName  string     `db:"first_name" json:"firstName"`
	LastName   string     `db:"last_name" json:"lastName"`
	Department Department `db:"doctor_department" json:"doctorDepartment"`
}

// RegisterRequest registers a new patient account
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	DOB       string `json:"dob" binding:"required,dateonly"`
	Gender    string `json:"gender" binding:"required,gender"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates a patient or admin
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// AddAdminRequest creates a new admin account (admin only)
type AddAdminRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// TokenClaims are the verified identity fields the session middleware
// injects into the request context
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
