package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

type AppointmentService struct {
	creds        CredentialStore
	appointments AppointmentStore
	notifier     Notifier
	log          *logrus.Logger
	now          func() time.Time
}

func NewAppointmentService(creds CredentialStore, appointments AppointmentStore, notifier Notifier, log *logrus.Logger) *AppointmentService {
	return &AppointmentService{
		creds:        creds,
		appointments: appointments,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Book creates a pending appointment between the patient and an existing
// doctor.
func (s *AppointmentService) Book(ctx context.Context, patientID primitive.ObjectID, b Booking) (*models.Appointment, error) {
	if err := b.Validate(); err != nil {
		return nil, invalid("book appointment", err)
	}
	doctorID, _ := primitive.ObjectIDFromHex(b.DoctorID)
	date, _ := ParseAppointmentDate(b.Date)

	if _, err := s.creds.GetDoctor(ctx, doctorID); err != nil {
		return nil, fromStore(err, "load doctor")
	}

	apt := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Status:    models.StatusPending,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fromStore(err, "create appointment")
	}
	s.log.WithFields(logrus.Fields{
		"appointment_id": apt.ID.Hex(),
		"doctor_id":      doctorID.Hex(),
		"patient_id":     patientID.Hex(),
	}).Info("appointment booked")
	return apt, nil
}

func (s *AppointmentService) Approve(ctx context.Context, doctorID, appointmentID primitive.ObjectID) error {
	return s.decide(ctx, doctorID, appointmentID, models.StatusAccepted)
}

func (s *AppointmentService) Reject(ctx context.Context, doctorID, appointmentID primitive.ObjectID) error {
	return s.decide(ctx, doctorID, appointmentID, models.StatusRejected)
}

// decide moves a pending appointment owned by the doctor to a terminal
// status. Repeating a decision succeeds without side effects; reversing one
// is a conflict. Appointments of other doctors are reported as not found.
func (s *AppointmentService) decide(ctx context.Context, doctorID, appointmentID primitive.ObjectID, to models.AppointmentStatus) error {
	changed, err := s.appointments.Decide(ctx, appointmentID, doctorID, to)
	if err != nil {
		return fromStore(err, "decide appointment")
	}

	if changed {
		log := s.log.WithFields(logrus.Fields{
			"appointment_id": appointmentID.Hex(),
			"doctor_id":      doctorID.Hex(),
			"status":         to,
		})
		log.Info("appointment decided")

		// The decision is stored; a failed read-back only costs the email.
		apt, err := s.appointments.Get(ctx, appointmentID)
		if err != nil {
			log.WithError(err).Warn("notification skipped: appointment lookup failed")
			return nil
		}
		s.notify(ctx, *apt)
		return nil
	}

	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return fromStore(err, "load appointment")
	}
	if apt.DoctorID != doctorID {
		return errors.Wrap(ErrNotFound, "appointment belongs to another doctor")
	}

	_, moved, terr := apt.Status.Transition(to)
	switch {
	case errors.Is(terr, models.ErrTerminalStatus):
		return errors.Wrapf(ErrConflict, "appointment already %s", apt.Status)
	case terr != nil:
		return errors.Wrap(terr, "decide appointment")
	case moved:
		// Still pending although the conditional update missed it.
		return errors.Wrap(ErrConflict, "appointment changed concurrently")
	}
	return nil
}

func (s *AppointmentService) notify(ctx context.Context, apt models.Appointment) {
	if s.notifier == nil {
		return
	}
	patient, err := s.creds.GetPatient(ctx, apt.PatientID)
	if err != nil {
		s.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("notification skipped: patient lookup failed")
		return
	}
	doctor, err := s.creds.GetDoctor(ctx, apt.DoctorID)
	if err != nil {
		s.log.WithError(err).WithField("appointment_id", apt.ID.Hex()).Warn("notification skipped: doctor lookup failed")
		return
	}
	s.notifier.AppointmentDecided(*patient, *doctor, apt)
}

type DoctorAppointments struct {
	Pending  []models.AppointmentView
	Upcoming []models.AppointmentView
}

// ForDoctor returns the doctor's pending requests and the accepted
// appointments that have not happened yet, both in date order.
func (s *AppointmentService) ForDoctor(ctx context.Context, doctorID primitive.ObjectID) (*DoctorAppointments, error) {
	pending, err := s.appointments.List(ctx, store.AppointmentFilter{
		DoctorID: doctorID,
		Statuses: []models.AppointmentStatus{models.StatusPending},
	})
	if err != nil {
		return nil, fromStore(err, "list pending")
	}
	upcoming, err := s.appointments.List(ctx, store.AppointmentFilter{
		DoctorID: doctorID,
		Statuses: []models.AppointmentStatus{models.StatusAccepted},
		From:     s.now(),
	})
	if err != nil {
		return nil, fromStore(err, "list upcoming")
	}

	out := &DoctorAppointments{}
	if out.Pending, err = appointmentViews(ctx, s.creds, pending); err != nil {
		return nil, err
	}
	if out.Upcoming, err = appointmentViews(ctx, s.creds, upcoming); err != nil {
		return nil, err
	}
	return out, nil
}
