package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// driverErr translates driver failures into the store taxonomy. The
// original error text is preserved in the wrap for logs.
func driverErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return errors.Wrap(ErrNotFound, op)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(ErrDuplicate, op)
	case err == context.DeadlineExceeded || mongo.IsTimeout(err) || mongo.IsNetworkError(err):
		return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	default:
		return errors.Wrap(err, op)
	}
}
