package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

// AppointmentFilter selects appointments. Zero fields do not constrain.
type AppointmentFilter struct {
	DoctorID  primitive.ObjectID
	PatientID primitive.ObjectID
	Statuses  []models.AppointmentStatus
	// From keeps appointments dated at or after it.
	From time.Time
}

func (f AppointmentFilter) toBSON() bson.M {
	filter := bson.M{}
	if !f.DoctorID.IsZero() {
		filter["doctor"] = f.DoctorID
	}
	if !f.PatientID.IsZero() {
		filter["patient"] = f.PatientID
	}
	if len(f.Statuses) == 1 {
		filter["status"] = f.Statuses[0]
	} else if len(f.Statuses) > 1 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if !f.From.IsZero() {
		filter["date"] = bson.M{"$gte": f.From}
	}
	return filter
}

// Match applies the filter to a single appointment in memory.
func (f AppointmentFilter) Match(apt models.Appointment) bool {
	if !f.DoctorID.IsZero() && apt.DoctorID != f.DoctorID {
		return false
	}
	if !f.PatientID.IsZero() && apt.PatientID != f.PatientID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if apt.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.From.IsZero() && apt.Date.Before(f.From) {
		return false
	}
	return true
}

type AppointmentStore struct {
	appointments *mongo.Collection
	timeout      time.Duration
}

func NewAppointmentStore(db *mongo.Database, timeout time.Duration) *AppointmentStore {
	return &AppointmentStore{appointments: db.Collection(AppointmentsCollection), timeout: timeout}
}

func (s *AppointmentStore) Create(ctx context.Context, apt *models.Appointment) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = time.Now().UTC()
	}
	_, err := s.appointments.InsertOne(ctx, apt)
	return wrap(err, "insert appointment")
}

func (s *AppointmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var apt models.Appointment
	if err := s.appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&apt); err != nil {
		return nil, wrap(err, "get appointment")
	}
	return &apt, nil
}

// Decide moves a pending appointment owned by doctorID to status in a single
// conditional update. It reports false when nothing matched, i.e. the
// appointment is missing, owned by someone else or no longer pending.
func (s *AppointmentStore) Decide(ctx context.Context, id, doctorID primitive.ObjectID, status models.AppointmentStatus) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.appointments.UpdateOne(ctx,
		bson.M{"_id": id, "doctor": doctorID, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return false, wrap(err, "decide appointment")
	}
	return res.MatchedCount == 1, nil
}

// List returns the matching appointments in chronological order.
func (s *AppointmentStore) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.appointments.Find(ctx, f.toBSON(), opts)
	if err != nil {
		return nil, wrap(err, "find appointments")
	}
	defer cursor.Close(ctx)

	apts := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &apts); err != nil {
		return nil, wrap(err, "decode appointments")
	}
	return apts, nil
}

func (s *AppointmentStore) Count(ctx context.Context, f AppointmentFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.appointments.CountDocuments(ctx, f.toBSON())
	if err != nil {
		return 0, wrap(err, "count appointments")
	}
	return n, nil
}

// Latest returns the matching appointment with the greatest date.
func (s *AppointmentStore) Latest(ctx context.Context, f AppointmentFilter) (*models.Appointment, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	var apt models.Appointment
	if err := s.appointments.FindOne(ctx, f.toBSON(), opts).Decode(&apt); err != nil {
		return nil, wrap(err, "latest appointment")
	}
	return &apt, nil
}

// PatientIDsByDoctor lists the distinct patients who booked with doctorID.
func (s *AppointmentStore) PatientIDsByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.appointments.Distinct(ctx, "patient", bson.M{"doctor": doctorID})
	if err != nil {
		return nil, wrap(err, "distinct appointment patients")
	}
	return objectIDs(values), nil
}
