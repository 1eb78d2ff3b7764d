package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/model"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
)

// Metadata keys mirror the checkout payload field names; the provider
// session is the sole carrier of the pending appointment between the two
// phases, so these keys are part of the protocol.
const (
	metaFirstName       = "firstName"
	metaLastName        = "lastName"
	metaEmail           = "email"
	metaPhone           = "phone"
	metaDOB             = "dob"
	metaGender          = "gender"
	metaAppointmentDate = "appointment_date"
	metaDepartment      = "department"
	metaAddress         = "address"
	metaDoctorID        = "doctorId"
	metaPatientID       = "patientId"
	metaDoctorFirstName = "doctor_firstName"
	metaDoctorLastName  = "doctor_lastName"
)

func metadataFromRequest(req *model.CheckoutRequest) map[string]string {
	m := map[string]string{
		metaFirstName:       req.FirstName,
		metaLastName:        req.LastName,
		metaEmail:           req.Email,
		metaPhone:           req.Phone,
		metaDOB:             req.DOB,
		metaGender:          req.Gender,
		metaAppointmentDate: req.AppointmentDate,
		metaDepartment:      req.Department,
		metaAddress:         req.Address,
		metaDoctorID:        req.DoctorID,
		metaPatientID:       req.PatientID,
	}
	if req.DoctorFirstName != "" {
		m[metaDoctorFirstName] = req.DoctorFirstName
	}
	if req.DoctorLastName != "" {
		m[metaDoctorLastName] = req.DoctorLastName
	}
	return m
}

// appointmentFromMetadata re-validates the session payload at commit time;
// stale or mangled metadata must never produce a partial record.
func appointmentFromMetadata(m map[string]string) (*model.Appointment, error) {
	for _, key := range []string{
		metaFirstName, metaLastName, metaEmail, metaPhone, metaDOB, metaGender,
		metaAppointmentDate, metaDepartment, metaAddress, metaDoctorID, metaPatientID,
	} {
		if m[key] == "" {
			return nil, apperrors.Validation(fmt.Sprintf("checkout session metadata missing %q", key), nil)
		}
	}

	doctorID, err := parseID(m[metaDoctorID], "doctorId")
	if err != nil {
		return nil, err
	}
	patientID, err := parseID(m[metaPatientID], "patientId")
	if err != nil {
		return nil, err
	}
	dob, err := parseDate(m[metaDOB])
	if err != nil {
		return nil, err
	}
	date, err := parseDate(m[metaAppointmentDate])
	if err != nil {
		return nil, err
	}

	gender := model.Gender(m[metaGender])
	if !gender.IsValid() {
		return nil, apperrors.Validation("gender must be Male or Female", nil)
	}
	department := model.Department(m[metaDepartment])
	if !department.IsValid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown department %q", m[metaDepartment]), nil)
	}

	return &model.Appointment{
		FirstName:       m[metaFirstName],
		LastName:        m[metaLastName],
		Email:           m[metaEmail],
		Phone:           m[metaPhone],
		DOB:             dob,
		Gender:          gender,
		AppointmentDate: date,
		Department:      department,
		Address:         m[metaAddress],
		DoctorID:        doctorID,
		PatientID:       patientID,
	}, nil
}

func parseID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperrors.Validation(fmt.Sprintf("invalid %s", field), err)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateOnly, s)
	if err != nil {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return t, nil
}
