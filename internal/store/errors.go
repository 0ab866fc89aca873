package store

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// wrap classifies a driver error and annotates it with the failed operation.
func wrap(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrap(ErrNotFound, op)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(ErrDuplicate, op)
	default:
		return errors.Wrap(err, op)
	}
}
