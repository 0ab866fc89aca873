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

// RecordStore is the single source of truth for medical records. A patient's
// record list is always read from here by patient id.
type RecordStore struct {
	records *mongo.Collection
	timeout time.Duration
}

func NewRecordStore(db *mongo.Database, timeout time.Duration) *RecordStore {
	return &RecordStore{records: db.Collection(RecordsCollection), timeout: timeout}
}

func (s *RecordStore) Create(ctx context.Context, record *models.MedicalRecord) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}
	if record.Pharm == "" {
		record.Pharm = models.PharmNotDispensed
	}
	_, err := s.records.InsertOne(ctx, record)
	return wrap(err, "insert medical record")
}

// Update rewrites diagnosis and prescription of a record owned by patientID.
func (s *RecordStore) Update(ctx context.Context, patientID, recordID primitive.ObjectID, diagnosis, prescription string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.records.UpdateOne(ctx,
		bson.M{"_id": recordID, "patient": patientID},
		bson.M{"$set": bson.M{"diagnosis": diagnosis, "prescription": prescription}},
	)
	if err != nil {
		return wrap(err, "update medical record")
	}
	if res.MatchedCount == 0 {
		return wrap(mongo.ErrNoDocuments, "update medical record")
	}
	return nil
}

// ListByPatient returns the patient's records, most recent first. A limit of
// zero returns them all.
func (s *RecordStore) ListByPatient(ctx context.Context, patientID primitive.ObjectID, limit int64) ([]models.MedicalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{"patient": patientID}, opts)
}

// ListByPatients returns the records of every given patient, most recent first.
func (s *RecordStore) ListByPatients(ctx context.Context, patientIDs []primitive.ObjectID) ([]models.MedicalRecord, error) {
	if len(patientIDs) == 0 {
		return []models.MedicalRecord{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return s.find(ctx, bson.M{"patient": bson.M{"$in": patientIDs}}, opts)
}

// LatestByDoctor returns, per patient, the most recent record doctorID wrote.
// Patients without such a record are absent from the map.
func (s *RecordStore) LatestByDoctor(ctx context.Context, doctorID primitive.ObjectID, patientIDs []primitive.ObjectID) (map[primitive.ObjectID]models.MedicalRecord, error) {
	latest := make(map[primitive.ObjectID]models.MedicalRecord)
	if len(patientIDs) == 0 {
		return latest, nil
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"doctor": doctorID, "patient": bson.M{"$in": patientIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$patient", "record": bson.M{"$first": "$$ROOT"}}}},
	}
	cursor, err := s.records.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, "aggregate latest records")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Record models.MedicalRecord `bson:"record"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrap(err, "decode latest records")
	}
	for _, row := range rows {
		latest[row.Record.PatientID] = row.Record
	}
	return latest, nil
}

// PatientIDsByDoctor lists the distinct patients doctorID has written for.
func (s *RecordStore) PatientIDsByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.records.Distinct(ctx, "patient", bson.M{"doctor": doctorID})
	if err != nil {
		return nil, wrap(err, "distinct record patients")
	}
	return objectIDs(values), nil
}

func (s *RecordStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.MedicalRecord, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.records.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(err, "find medical records")
	}
	defer cursor.Close(ctx)

	records := make([]models.MedicalRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, wrap(err, "decode medical records")
	}
	return records, nil
}

func objectIDs(values []interface{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
