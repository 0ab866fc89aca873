package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/simple-ehr/internal/config"
	"github.com/harentsoaR/simple-ehr/internal/store"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsDev() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.App.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// openDatabase connects to MongoDB and makes sure the indexes exist.
func openDatabase(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Mongo.Database)
	if err := store.EnsureIndexes(ctx, db, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "ensure indexes")
	}
	log.WithField("database", cfg.Mongo.Database).Info("connected to MongoDB")
	return client, db, nil
}
