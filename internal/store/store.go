// Package store is the single access path to the document store. Every
// collection has exactly one schema definition (the models package) and one
// adapter; higher layers never touch the driver directly.
//
// Array mutations are expressed as atomic set-add / pull primitives so that
// concurrent writers cannot corrupt the embedded relation arrays: the
// duplicate check for bookings is compiled into the write filter instead of
// being a separate read followed by a blind push.
package store

import (
	"context"
	"errors"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate document")
	// ErrTimeout is returned when a store operation exceeds its bounded
	// timeout. Callers treat it as retriable infrastructure failure.
	ErrTimeout = errors.New("store operation timed out")
)

const (
	UsersCollection       = "users"
	ResidenciesCollection = "residencies"
)

// UserStore provides access to the users collection, including the atomic
// mutation primitives for the embedded favorite and booked-visit arrays.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id utils.SixID) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)

	// AddFavorite adds the residency ID to the user's favorite set. Adding a
	// member that is already present is a no-op (set-add semantics).
	AddFavorite(ctx context.Context, email string, residencyID utils.SixID) error
	// RemoveFavorite pulls the residency ID from the user's favorite set.
	// Removing a non-member is a no-op.
	RemoveFavorite(ctx context.Context, email string, residencyID utils.SixID) error

	// AddBooking appends the visit unless a booking for the same residency
	// already exists; the uniqueness condition is part of the write itself.
	// Returns false when the push was rejected because of an existing
	// booking, and ErrNotFound when the user does not exist.
	AddBooking(ctx context.Context, email string, visit models.BookedVisit) (bool, error)
	// RemoveBooking pulls every booking entry matching the residency ID
	// (at most one by invariant, but tolerant of more). Returns whether
	// anything was removed.
	RemoveBooking(ctx context.Context, email string, residencyID utils.SixID) (bool, error)

	// FindWithBookings returns the users with a non-empty bookings array.
	FindWithBookings(ctx context.Context) ([]models.User, error)

	// RemoveFavoriteFromAll strips the residency ID from every user's
	// favorite set and reports how many users were modified. Idempotent.
	RemoveFavoriteFromAll(ctx context.Context, residencyID utils.SixID) (int64, error)
	// RemoveBookingFromAll strips every booking of the residency from every
	// user and reports how many users were modified. Idempotent.
	RemoveBookingFromAll(ctx context.Context, residencyID utils.SixID) (int64, error)
}

// ResidencyStore provides access to the residencies collection.
type ResidencyStore interface {
	// Insert stores a new residency; ErrDuplicate when the (address, owner)
	// pair is already taken.
	Insert(ctx context.Context, residency *models.Residency) error
	FindByID(ctx context.Context, id utils.SixID) (*models.Residency, error)
	// FindByIDs performs one batched lookup for the given set of IDs.
	// Missing IDs are silently absent from the result.
	FindByIDs(ctx context.Context, ids []utils.SixID) ([]models.Residency, error)
	FindAll(ctx context.Context) ([]models.Residency, error)
	// AllIDs returns the set of every residency ID currently in the store.
	AllIDs(ctx context.Context) (map[utils.SixID]struct{}, error)
	// Update applies the given field updates to a residency owned by ownerID.
	Update(ctx context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error)
	// AddImage appends an image key to the residency (set-add semantics).
	AddImage(ctx context.Context, id utils.SixID, imageKey string) error
	// Delete removes the residency document. Returns whether it existed.
	// Only the residency service's cascade path may call this.
	Delete(ctx context.Context, id utils.SixID) (bool, error)
}
