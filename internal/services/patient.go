package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

const dashboardRecordLimit = 3

type PatientService struct {
	creds        CredentialStore
	records      RecordStore
	appointments AppointmentStore
	log          *logrus.Logger
	now          func() time.Time
}

func NewPatientService(creds CredentialStore, records RecordStore, appointments AppointmentStore, log *logrus.Logger) *PatientService {
	return &PatientService{
		creds:        creds,
		records:      records,
		appointments: appointments,
		log:          log,
		now:          time.Now,
	}
}

type PatientDashboard struct {
	Patient       models.Patient
	RecentRecords []models.RecordView
	Appointments  []models.AppointmentView
	Doctors       []models.Doctor
}

// Dashboard shows the newest records, the decided appointments still ahead
// and the doctors available for booking.
func (s *PatientService) Dashboard(ctx context.Context, patientID primitive.ObjectID) (*PatientDashboard, error) {
	patient, err := s.creds.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fromStore(err, "load patient")
	}

	records, err := s.records.ListByPatient(ctx, patientID, dashboardRecordLimit)
	if err != nil {
		return nil, fromStore(err, "recent records")
	}
	views, err := recordViews(ctx, s.creds, records)
	if err != nil {
		return nil, err
	}

	apts, err := s.appointments.List(ctx, store.AppointmentFilter{
		PatientID: patientID,
		Statuses:  []models.AppointmentStatus{models.StatusAccepted, models.StatusRejected},
		From:      s.now(),
	})
	if err != nil {
		return nil, fromStore(err, "upcoming appointments")
	}
	aptViews, err := appointmentViews(ctx, s.creds, apts)
	if err != nil {
		return nil, err
	}

	doctors, err := s.creds.ListDoctors(ctx)
	if err != nil {
		return nil, fromStore(err, "list doctors")
	}

	return &PatientDashboard{
		Patient:       *patient,
		RecentRecords: views,
		Appointments:  aptViews,
		Doctors:       doctors,
	}, nil
}

type PatientRecords struct {
	Patient models.Patient
	Records []models.RecordView
}

func (s *PatientService) Records(ctx context.Context, patientID primitive.ObjectID) (*PatientRecords, error) {
	patient, err := s.creds.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fromStore(err, "load patient")
	}
	records, err := s.records.ListByPatient(ctx, patientID, 0)
	if err != nil {
		return nil, fromStore(err, "list records")
	}
	views, err := recordViews(ctx, s.creds, records)
	if err != nil {
		return nil, err
	}
	return &PatientRecords{Patient: *patient, Records: views}, nil
}
