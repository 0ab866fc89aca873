package services

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/store"
)

// Failure classes every service operation reports. Callers branch with
// errors.Is; the wrapped message carries the detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStoreFailure      = errors.New("store failure")

	ErrPasswordMismatch = errors.WithMessage(ErrConflict, "passwords do not match")
)

// classified tags an underlying error with one of the failure classes while
// keeping it reachable through Unwrap.
type classified struct {
	class error
	op    string
	err   error
}

func (e *classified) Error() string        { return e.op + ": " + e.err.Error() }
func (e *classified) Unwrap() error        { return e.err }
func (e *classified) Is(target error) bool { return target == e.class }

func invalid(op string, err error) error {
	return &classified{class: ErrInvalidInput, op: op, err: err}
}

// fromStore maps store errors onto the service taxonomy.
func fromStore(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return errors.Wrap(ErrNotFound, op)
	case errors.Is(err, store.ErrDuplicate):
		return errors.Wrap(ErrConflict, op)
	default:
		return &classified{class: ErrStoreFailure, op: op, err: err}
	}
}

// ParseID turns a path parameter into an ObjectID. Malformed ids cannot name
// any document, so they are reported as not found.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrNotFound, "malformed id %q", hex)
	}
	return id, nil
}
