package services

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

type DoctorRegistration struct {
	Name        string
	Email       string
	Password    string
	Designation models.Designation
}

func (r DoctorRegistration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
		validation.Field(&r.Designation, validation.By(func(v interface{}) error {
			if !models.ValidDesignation(v.(models.Designation)) {
				return errors.New("unknown designation")
			}
			return nil
		})),
	)
}

type PatientRegistration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func (r PatientRegistration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
}

type RecordInput struct {
	Diagnosis    string
	Prescription string
	Lab          string
	Radio        string
	Pharm        string
}

func (r RecordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Diagnosis, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.Prescription, validation.Length(0, 2000)),
	)
}

type RecordUpdate struct {
	Diagnosis    string
	Prescription string
}

func (r RecordUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Diagnosis, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.Prescription, validation.Length(0, 2000)),
	)
}

// Booking is what a patient submits to request an appointment.
type Booking struct {
	DoctorID string
	Date     string
}

func (b Booking) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.DoctorID, validation.Required, is.MongoID),
		validation.Field(&b.Date, validation.Required, validation.By(func(v interface{}) error {
			_, err := ParseAppointmentDate(v.(string))
			return err
		})),
	)
}

// Layouts accepted for the appointment date, as sent by date and
// datetime-local inputs.
var appointmentLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339, "2006-01-02"}

func ParseAppointmentDate(raw string) (time.Time, error) {
	for _, layout := range appointmentLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised date %q", raw)
}
