package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
)

const userColumns = `
	id, first_name, last_name, email, phone, dob, gender, password_hash,
	role, doctor_department, status, created_at, updated_at
`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.DOB,
		user.Gender,
		user.PasswordHash,
		user.Role,
		user.DoctorDepartment,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "idx_users_email_role") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, role model.Role) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, email, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, first_name, last_name, doctor_department
		FROM users
		WHERE id = $1 AND role = $2 AND status = $3
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id, model.RoleDoctor, model.UserStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *userRepository) FindDoctorsByName(ctx context.Context, firstName, lastName string, department model.Department) ([]*model.Doctor, error) {
	query := `
		SELECT id, first_name, last_name, doctor_department
		FROM users
		WHERE first_name = $1 AND last_name = $2 AND doctor_department = $3
		  AND role = $4 AND status = $5
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, firstName, lastName, department, model.RoleDoctor, model.UserStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to find doctors: %w", err)
	}
	return doctors, nil
}

func (r *userRepository) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, first_name, last_name, doctor_department
		FROM users
		WHERE role = $1 AND status = $2
		ORDER BY last_name, first_name
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, model.RoleDoctor, model.UserStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
