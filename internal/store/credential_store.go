package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

// CredentialStore persists doctors and patients in one collection per role.
type CredentialStore struct {
	doctors  *mongo.Collection
	patients *mongo.Collection
	timeout  time.Duration
}

func NewCredentialStore(db *mongo.Database, timeout time.Duration) *CredentialStore {
	return &CredentialStore{
		doctors:  db.Collection(DoctorsCollection),
		patients: db.Collection(PatientsCollection),
		timeout:  timeout,
	}
}

func (s *CredentialStore) collection(role models.Role) (*mongo.Collection, error) {
	switch role {
	case models.RoleDoctor:
		return s.doctors, nil
	case models.RolePatient:
		return s.patients, nil
	default:
		return nil, fmt.Errorf("no collection for role %q", role)
	}
}

func (s *CredentialStore) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	doctor.Role = models.RoleDoctor
	_, err := s.doctors.InsertOne(ctx, doctor)
	return wrap(err, "insert doctor")
}

func (s *CredentialStore) CreatePatient(ctx context.Context, patient *models.Patient) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	patient.Role = models.RolePatient
	_, err := s.patients.InsertOne(ctx, patient)
	return wrap(err, "insert patient")
}

func (s *CredentialStore) FindByEmail(ctx context.Context, role models.Role, email string) (models.Credential, error) {
	coll, err := s.collection(role)
	if err != nil {
		return models.Credential{}, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{"email": email}
	switch role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := coll.FindOne(ctx, filter).Decode(&doctor); err != nil {
			return models.Credential{}, wrap(err, "find doctor by email")
		}
		return doctor.Credential(), nil
	default:
		var patient models.Patient
		if err := coll.FindOne(ctx, filter).Decode(&patient); err != nil {
			return models.Credential{}, wrap(err, "find patient by email")
		}
		return patient.Credential(), nil
	}
}

func (s *CredentialStore) EmailExists(ctx context.Context, role models.Role, email string) (bool, error) {
	coll, err := s.collection(role)
	if err != nil {
		return false, err
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	n, err := coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, wrap(err, "count credentials by email")
	}
	return n > 0, nil
}

func (s *CredentialStore) GetDoctor(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doctor models.Doctor
	if err := s.doctors.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return nil, wrap(err, "get doctor")
	}
	return &doctor, nil
}

func (s *CredentialStore) GetPatient(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var patient models.Patient
	if err := s.patients.FindOne(ctx, bson.M{"_id": id}).Decode(&patient); err != nil {
		return nil, wrap(err, "get patient")
	}
	return &patient, nil
}

// ListDoctors returns every doctor sorted by name.
func (s *CredentialStore) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.doctorsMatching(ctx, bson.M{})
}

// DoctorsByIDs returns the doctors with the given ids. An empty set matches nothing.
func (s *CredentialStore) DoctorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	if len(ids) == 0 {
		return []models.Doctor{}, nil
	}
	return s.doctorsMatching(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ListPatients returns every patient sorted by name.
func (s *CredentialStore) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return s.patientsMatching(ctx, bson.M{})
}

// PatientsByIDs returns the patients with the given ids. An empty set matches nothing.
func (s *CredentialStore) PatientsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Patient, error) {
	if len(ids) == 0 {
		return []models.Patient{}, nil
	}
	return s.patientsMatching(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *CredentialStore) doctorsMatching(ctx context.Context, filter bson.M) ([]models.Doctor, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	doctors := make([]models.Doctor, 0)
	if err := findSortedByName(ctx, s.doctors, filter, &doctors); err != nil {
		return nil, wrap(err, "list doctors")
	}
	return doctors, nil
}

func (s *CredentialStore) patientsMatching(ctx context.Context, filter bson.M) ([]models.Patient, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	patients := make([]models.Patient, 0)
	if err := findSortedByName(ctx, s.patients, filter, &patients); err != nil {
		return nil, wrap(err, "list patients")
	}
	return patients, nil
}

func findSortedByName(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
