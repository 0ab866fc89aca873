// Package memstore keeps credentials, records and appointments in process
// memory. It mirrors the MongoDB stores closely enough for service and
// handler tests, including unique emails and conditional status updates.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	doctors      map[primitive.ObjectID]models.Doctor
	patients     map[primitive.ObjectID]models.Patient
	records      map[primitive.ObjectID]models.MedicalRecord
	appointments map[primitive.ObjectID]models.Appointment

	// Fail, when set, is returned by every operation.
	Fail error
}

func New() *Store {
	return &Store{
		doctors:      make(map[primitive.ObjectID]models.Doctor),
		patients:     make(map[primitive.ObjectID]models.Patient),
		records:      make(map[primitive.ObjectID]models.MedicalRecord),
		appointments: make(map[primitive.ObjectID]models.Appointment),
	}
}

// Credentials, Records and Appointments expose the store under the three
// store roles so callers can wire them like the MongoDB implementations.
func (s *Store) Credentials() *CredentialStore   { return &CredentialStore{s} }
func (s *Store) Records() *RecordStore           { return &RecordStore{s} }
func (s *Store) Appointments() *AppointmentStore { return &AppointmentStore{s} }

type CredentialStore struct{ s *Store }

func (c *CredentialStore) CreateDoctor(_ context.Context, doctor *models.Doctor) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, d := range s.doctors {
		if d.Email == doctor.Email {
			return errors.Wrap(store.ErrDuplicate, "insert doctor")
		}
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	doctor.Role = models.RoleDoctor
	s.doctors[doctor.ID] = *doctor
	return nil
}

func (c *CredentialStore) CreatePatient(_ context.Context, patient *models.Patient) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, p := range s.patients {
		if p.Email == patient.Email {
			return errors.Wrap(store.ErrDuplicate, "insert patient")
		}
	}
	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	patient.Role = models.RolePatient
	s.patients[patient.ID] = *patient
	return nil
}

func (c *CredentialStore) FindByEmail(_ context.Context, role models.Role, email string) (models.Credential, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return models.Credential{}, s.Fail
	}
	switch role {
	case models.RoleDoctor:
		for _, d := range s.doctors {
			if d.Email == email {
				return d.Credential(), nil
			}
		}
	case models.RolePatient:
		for _, p := range s.patients {
			if p.Email == email {
				return p.Credential(), nil
			}
		}
	default:
		return models.Credential{}, errors.Errorf("no collection for role %q", role)
	}
	return models.Credential{}, errors.Wrap(store.ErrNotFound, "find by email")
}

func (c *CredentialStore) EmailExists(ctx context.Context, role models.Role, email string) (bool, error) {
	_, err := c.FindByEmail(ctx, role, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (c *CredentialStore) GetDoctor(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	d, ok := s.doctors[id]
	if !ok {
		return nil, errors.Wrap(store.ErrNotFound, "get doctor")
	}
	return &d, nil
}

func (c *CredentialStore) GetPatient(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	p, ok := s.patients[id]
	if !ok {
		return nil, errors.Wrap(store.ErrNotFound, "get patient")
	}
	return &p, nil
}

func (c *CredentialStore) ListDoctors(_ context.Context) ([]models.Doctor, error) {
	return c.doctorsWhere(func(models.Doctor) bool { return true })
}

func (c *CredentialStore) DoctorsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	set := idSet(ids)
	return c.doctorsWhere(func(d models.Doctor) bool { return set[d.ID] })
}

func (c *CredentialStore) ListPatients(_ context.Context) ([]models.Patient, error) {
	return c.patientsWhere(func(models.Patient) bool { return true })
}

func (c *CredentialStore) PatientsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Patient, error) {
	set := idSet(ids)
	return c.patientsWhere(func(p models.Patient) bool { return set[p.ID] })
}

func (c *CredentialStore) doctorsWhere(keep func(models.Doctor) bool) ([]models.Doctor, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]models.Doctor, 0)
	for _, d := range s.doctors {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *CredentialStore) patientsWhere(keep func(models.Patient) bool) ([]models.Patient, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]models.Patient, 0)
	for _, p := range s.patients {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type RecordStore struct{ s *Store }

func (r *RecordStore) Create(_ context.Context, record *models.MedicalRecord) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}
	if record.Pharm == "" {
		record.Pharm = models.PharmNotDispensed
	}
	s.records[record.ID] = *record
	return nil
}

func (r *RecordStore) Update(_ context.Context, patientID, recordID primitive.ObjectID, diagnosis, prescription string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	rec, ok := s.records[recordID]
	if !ok || rec.PatientID != patientID {
		return errors.Wrap(store.ErrNotFound, "update medical record")
	}
	rec.Diagnosis = diagnosis
	rec.Prescription = prescription
	s.records[recordID] = rec
	return nil
}

func (r *RecordStore) ListByPatient(_ context.Context, patientID primitive.ObjectID, limit int64) ([]models.MedicalRecord, error) {
	out, err := r.where(func(m models.MedicalRecord) bool { return m.PatientID == patientID })
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RecordStore) ListByPatients(_ context.Context, patientIDs []primitive.ObjectID) ([]models.MedicalRecord, error) {
	set := idSet(patientIDs)
	return r.where(func(m models.MedicalRecord) bool { return set[m.PatientID] })
}

func (r *RecordStore) LatestByDoctor(_ context.Context, doctorID primitive.ObjectID, patientIDs []primitive.ObjectID) (map[primitive.ObjectID]models.MedicalRecord, error) {
	set := idSet(patientIDs)
	recs, err := r.where(func(m models.MedicalRecord) bool { return m.DoctorID == doctorID && set[m.PatientID] })
	if err != nil {
		return nil, err
	}
	latest := make(map[primitive.ObjectID]models.MedicalRecord)
	for _, m := range recs {
		if _, seen := latest[m.PatientID]; !seen {
			latest[m.PatientID] = m
		}
	}
	return latest, nil
}

func (r *RecordStore) PatientIDsByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	recs, err := r.where(func(m models.MedicalRecord) bool { return m.DoctorID == doctorID })
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(recs))
	for _, m := range recs {
		ids = append(ids, m.PatientID)
	}
	return distinct(ids), nil
}

// where returns matching records, most recent first.
func (r *RecordStore) where(keep func(models.MedicalRecord) bool) ([]models.MedicalRecord, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]models.MedicalRecord, 0)
	for _, m := range s.records {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type AppointmentStore struct{ s *Store }

func (a *AppointmentStore) Create(_ context.Context, apt *models.Appointment) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = time.Now().UTC()
	}
	s.appointments[apt.ID] = *apt
	return nil
}

func (a *AppointmentStore) Get(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	s := a.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	apt, ok := s.appointments[id]
	if !ok {
		return nil, errors.Wrap(store.ErrNotFound, "get appointment")
	}
	return &apt, nil
}

func (a *AppointmentStore) Decide(_ context.Context, id, doctorID primitive.ObjectID, status models.AppointmentStatus) (bool, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	apt, ok := s.appointments[id]
	if !ok || apt.DoctorID != doctorID || apt.Status != models.StatusPending {
		return false, nil
	}
	apt.Status = status
	s.appointments[id] = apt
	return true, nil
}

func (a *AppointmentStore) List(_ context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	out, err := a.where(f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (a *AppointmentStore) Count(_ context.Context, f store.AppointmentFilter) (int64, error) {
	out, err := a.where(f)
	if err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

func (a *AppointmentStore) Latest(ctx context.Context, f store.AppointmentFilter) (*models.Appointment, error) {
	out, err := a.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Wrap(store.ErrNotFound, "latest appointment")
	}
	latest := out[len(out)-1]
	return &latest, nil
}

func (a *AppointmentStore) PatientIDsByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	out, err := a.where(store.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(out))
	for _, apt := range out {
		ids = append(ids, apt.PatientID)
	}
	return distinct(ids), nil
}

func (a *AppointmentStore) where(f store.AppointmentFilter) ([]models.Appointment, error) {
	s := a.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]models.Appointment, 0)
	for _, apt := range s.appointments {
		if f.Match(apt) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func distinct(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
