// Package service holds the business rules of the store: who may do what,
// and which rows change together.
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"svgecommerce/internal/errors"
	"svgecommerce/internal/metrics"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// retryOnConflict runs fn again while it fails with ErrVersionConflict, at
// most attempts times in total.
func retryOnConflict(ctx context.Context, attempts int, entity string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, errors.ErrVersionConflict) {
			return err
		}
		metrics.VersionConflicts.WithLabelValues(entity).Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return fmt.Errorf("%s: %w after %d attempts", entity, err, attempts)
}

// lockStripes is the number of mutexes shared by all users.
const lockStripes = 256

// keyedMutex maps user IDs onto a fixed set of mutexes. Two users may share
// a stripe; one user always gets the same one.
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (k *keyedMutex) get(id uuid.UUID) *sync.Mutex {
	return &k.stripes[stripeOf(id)]
}

func stripeOf(id uuid.UUID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return h.Sum32() % lockStripes
}

func userCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}
