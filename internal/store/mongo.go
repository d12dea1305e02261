package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/db"
)

// DefaultOpTimeout bounds each individual store operation when the caller's
// context carries no tighter deadline.
const DefaultOpTimeout = 5 * time.Second

// opContext derives a bounded context for a single store operation.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// mapMongoError translates driver errors into the store's error taxonomy.
func mapMongoError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case db.IsMongoDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case db.IsTransientError(err):
		return fmt.Errorf("%s: %v: %w", op, err, ErrTimeout)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
