package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "pending"
	StatusAccepted AppointmentStatus = "accepted"
	StatusRejected AppointmentStatus = "rejected"
)

// ErrTerminalStatus is returned when a decided appointment is asked to take
// the opposite decision.
var ErrTerminalStatus = errors.New("appointment already decided")

// Terminal reports whether no further transition is defined from s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Transition returns the status reached by deciding `to` from s. Repeating
// the decision already taken is a no-op: changed is false and err is nil.
func (s AppointmentStatus) Transition(to AppointmentStatus) (next AppointmentStatus, changed bool, err error) {
	if !to.Terminal() {
		return s, false, errors.New("invalid target status " + string(to))
	}
	switch s {
	case StatusPending:
		return to, true, nil
	case StatusAccepted, StatusRejected:
		if s == to {
			return s, false, nil
		}
		return s, false, ErrTerminalStatus
	default:
		return s, false, errors.New("unknown status " + string(s))
	}
}

type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID  primitive.ObjectID `bson:"doctor" json:"doctorId"`
	PatientID primitive.ObjectID `bson:"patient" json:"patientId"`
	Date      time.Time          `bson:"date" json:"date"`
	Status    AppointmentStatus  `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// AppointmentView carries the counterpart's name for listings.
type AppointmentView struct {
	Appointment
	DoctorName  string
	PatientName string
}
