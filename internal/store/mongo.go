package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DoctorsCollection      = "doctors"
	PatientsCollection     = "patients"
	RecordsCollection      = "medical_records"
	AppointmentsCollection = "appointments"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}
	return client, nil
}

// EnsureIndexes creates the unique email indexes and the query indexes the
// dashboards rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logrus.Logger) error {
	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		DoctorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		PatientsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		RecordsCollection: {
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "patient", Value: 1}, {Key: "date", Value: -1}}},
		},
		AppointmentsCollection: {
			{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "status", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "date", Value: 1}}},
		},
	}

	for collection, models := range plan {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return errors.Wrapf(err, "create indexes on %s", collection)
		}
		log.WithField("collection", collection).Debugf("indexes ready: %v", names)
	}
	return nil
}

// Ping reports whether the primary answers.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
