package services

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

type DoctorService struct {
	creds        CredentialStore
	records      RecordStore
	appointments AppointmentStore
	log          *logrus.Logger
}

func NewDoctorService(creds CredentialStore, records RecordStore, appointments AppointmentStore, log *logrus.Logger) *DoctorService {
	return &DoctorService{creds: creds, records: records, appointments: appointments, log: log}
}

// PatientSummary is one row of the doctor dashboard. LatestRecord is the
// newest record this doctor wrote for the patient, nil when there is none.
type PatientSummary struct {
	Patient      models.Patient
	LatestRecord *models.MedicalRecord
}

type DoctorDashboard struct {
	Doctor        models.Doctor
	Patients      []PatientSummary
	AcceptedCount int64
	PendingCount  int64
}

// Dashboard lists the patients associated with the doctor, either through a
// record the doctor wrote or an appointment with the doctor.
func (s *DoctorService) Dashboard(ctx context.Context, doctorID primitive.ObjectID) (*DoctorDashboard, error) {
	doctor, err := s.creds.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, fromStore(err, "load doctor")
	}

	ids, err := s.associatedPatients(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	patients, err := s.creds.PatientsByIDs(ctx, ids)
	if err != nil {
		return nil, fromStore(err, "load patients")
	}
	latest, err := s.records.LatestByDoctor(ctx, doctorID, ids)
	if err != nil {
		return nil, fromStore(err, "latest records")
	}

	dash := &DoctorDashboard{Doctor: *doctor, Patients: make([]PatientSummary, 0, len(patients))}
	for _, p := range patients {
		row := PatientSummary{Patient: p}
		if rec, ok := latest[p.ID]; ok {
			rec := rec
			row.LatestRecord = &rec
		}
		dash.Patients = append(dash.Patients, row)
	}

	if dash.AcceptedCount, err = s.appointments.Count(ctx, store.AppointmentFilter{
		DoctorID: doctorID,
		Statuses: []models.AppointmentStatus{models.StatusAccepted},
	}); err != nil {
		return nil, fromStore(err, "count accepted")
	}
	if dash.PendingCount, err = s.appointments.Count(ctx, store.AppointmentFilter{
		DoctorID: doctorID,
		Statuses: []models.AppointmentStatus{models.StatusPending},
	}); err != nil {
		return nil, fromStore(err, "count pending")
	}
	return dash, nil
}

func (s *DoctorService) associatedPatients(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	fromRecords, err := s.records.PatientIDsByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fromStore(err, "record patients")
	}
	fromAppointments, err := s.appointments.PatientIDsByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fromStore(err, "appointment patients")
	}
	return unique(append(fromRecords, fromAppointments...)), nil
}

type PatientHistory struct {
	Patient models.Patient
	Records []models.RecordView
}

// Patients lists every registered patient with their full record history.
func (s *DoctorService) Patients(ctx context.Context) ([]PatientHistory, error) {
	patients, err := s.creds.ListPatients(ctx)
	if err != nil {
		return nil, fromStore(err, "list patients")
	}
	ids := make([]primitive.ObjectID, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID)
	}
	records, err := s.records.ListByPatients(ctx, ids)
	if err != nil {
		return nil, fromStore(err, "list records")
	}
	views, err := recordViews(ctx, s.creds, records)
	if err != nil {
		return nil, err
	}

	byPatient := make(map[primitive.ObjectID][]models.RecordView, len(patients))
	for _, v := range views {
		byPatient[v.PatientID] = append(byPatient[v.PatientID], v)
	}
	out := make([]PatientHistory, 0, len(patients))
	for _, p := range patients {
		recs := byPatient[p.ID]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.After(recs[j].Date) })
		out = append(out, PatientHistory{Patient: p, Records: recs})
	}
	return out, nil
}

type PatientDetail struct {
	Patient           models.Patient
	Records           []models.RecordView
	RecentAppointment *models.Appointment
}

// PatientDetail returns the patient's records, newest first, and the latest
// appointment the patient has with this doctor.
func (s *DoctorService) PatientDetail(ctx context.Context, doctorID, patientID primitive.ObjectID) (*PatientDetail, error) {
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

	detail := &PatientDetail{Patient: *patient, Records: views}
	apt, err := s.appointments.Latest(ctx, store.AppointmentFilter{DoctorID: doctorID, PatientID: patientID})
	switch {
	case err == nil:
		detail.RecentAppointment = apt
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, fromStore(err, "latest appointment")
	}
	return detail, nil
}

func (s *DoctorService) AddRecord(ctx context.Context, doctorID, patientID primitive.ObjectID, in RecordInput) (*models.MedicalRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("add record", err)
	}
	if _, err := s.creds.GetPatient(ctx, patientID); err != nil {
		return nil, fromStore(err, "load patient")
	}

	record := &models.MedicalRecord{
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
		Lab:          in.Lab,
		Radio:        in.Radio,
		Pharm:        in.Pharm,
		DoctorID:     doctorID,
		PatientID:    patientID,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, fromStore(err, "create record")
	}
	s.log.WithFields(logrus.Fields{
		"record_id":  record.ID.Hex(),
		"doctor_id":  doctorID.Hex(),
		"patient_id": patientID.Hex(),
	}).Info("medical record added")
	return record, nil
}

// UpdateRecord rewrites diagnosis and prescription of a record belonging to
// the patient. Any doctor may edit.
func (s *DoctorService) UpdateRecord(ctx context.Context, patientID, recordID primitive.ObjectID, in RecordUpdate) error {
	if err := in.Validate(); err != nil {
		return invalid("update record", err)
	}
	if err := s.records.Update(ctx, patientID, recordID, in.Diagnosis, in.Prescription); err != nil {
		return fromStore(err, "update record")
	}
	return nil
}
