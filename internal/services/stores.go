package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

type CredentialStore interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	CreatePatient(ctx context.Context, patient *models.Patient) error
	FindByEmail(ctx context.Context, role models.Role, email string) (models.Credential, error)
	EmailExists(ctx context.Context, role models.Role, email string) (bool, error)
	GetDoctor(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	GetPatient(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	DoctorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	PatientsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Patient, error)
}

type RecordStore interface {
	Create(ctx context.Context, record *models.MedicalRecord) error
	Update(ctx context.Context, patientID, recordID primitive.ObjectID, diagnosis, prescription string) error
	ListByPatient(ctx context.Context, patientID primitive.ObjectID, limit int64) ([]models.MedicalRecord, error)
	ListByPatients(ctx context.Context, patientIDs []primitive.ObjectID) ([]models.MedicalRecord, error)
	LatestByDoctor(ctx context.Context, doctorID primitive.ObjectID, patientIDs []primitive.ObjectID) (map[primitive.ObjectID]models.MedicalRecord, error)
	PatientIDsByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, apt *models.Appointment) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	Decide(ctx context.Context, id, doctorID primitive.ObjectID, status models.AppointmentStatus) (bool, error)
	List(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error)
	Count(ctx context.Context, f store.AppointmentFilter) (int64, error)
	Latest(ctx context.Context, f store.AppointmentFilter) (*models.Appointment, error)
	PatientIDsByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
}
