package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/db"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// BookingNotifier is notified after a visit is booked. Delivery is best
// effort and never fails the booking.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, email string, residency *models.Residency, visitDate string) error
}

type IUserService interface {
	RegisterIfAbsent(ctx context.Context, email, name, image string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ToggleFavorite(ctx context.Context, email string, residencyID utils.SixID) ([]utils.SixID, error)
	BookVisit(ctx context.Context, email string, residencyID utils.SixID, visitDate string) error
	CancelBooking(ctx context.Context, email string, residencyID utils.SixID) error
	GetFavorites(ctx context.Context, email string) ([]models.Residency, error)
	GetBookings(ctx context.Context, email string) ([]models.BookedVisit, error)
}

type userService struct {
	users       store.UserStore
	residencies store.ResidencyStore
	notifier    BookingNotifier
}

func NewUserService(users store.UserStore, residencies store.ResidencyStore, notifier BookingNotifier) IUserService {
	return &userService{users: users, residencies: residencies, notifier: notifier}
}

// retryTimeout reissues a store operation a bounded number of times when it
// failed on a timeout. All relation mutations are idempotent, so a retry
// after an ambiguous failure cannot double-apply.
func retryTimeout(op db.Operation) error {
	return db.WithRetries(op, db.DefaultMaxRetries, func(err error) bool {
		return errors.Is(err, store.ErrTimeout)
	})
}

func (s *userService) RegisterIfAbsent(ctx context.Context, email, name, image string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		Base:                 models.NewBase(),
		Name:                 name,
		Email:                email,
		Image:                image,
		FavoriteResidencyIDs: []utils.SixID{},
		BookedVisits:         []models.BookedVisit{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	err = s.users.Insert(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost the race against a concurrent first login; the winner's
		// document is the canonical one.
		return s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ToggleFavorite flips the residency's membership in the user's favorite set
// and returns the resulting set. The residency itself is never looked up: a
// stale favorite left behind by a deletion must still be removable, so the
// toggle is agnostic to residency existence.
func (s *userService) ToggleFavorite(ctx context.Context, email string, residencyID utils.SixID) ([]utils.SixID, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if IsFavorite(user, residencyID) {
		err = retryTimeout(func() error {
			return s.users.RemoveFavorite(ctx, email, residencyID)
		})
	} else {
		err = retryTimeout(func() error {
			return s.users.AddFavorite(ctx, email, residencyID)
		})
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return updated.FavoriteResidencyIDs, nil
}

func (s *userService) BookVisit(ctx context.Context, email string, residencyID utils.SixID, visitDate string) error {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !CanBook(user, residencyID) {
		return ErrDuplicateBooking
	}

	visit := models.BookedVisit{ResidencyID: residencyID, VisitDate: visitDate}
	var added bool
	err = retryTimeout(func() error {
		var opErr error
		added, opErr = s.users.AddBooking(ctx, email, visit)
		return opErr
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !added {
		// A concurrent request booked the same residency between the guard
		// check and the write; the write filter caught it.
		return ErrDuplicateBooking
	}

	if s.notifier != nil {
		// Best effort. The residency lookup and the enqueue both stay off
		// the booking's success path.
		residency, err := s.residencies.FindByID(ctx, residencyID)
		if err != nil {
			log.Printf("booking confirmation for %s skipped, residency %s not loaded: %v", email, residencyID.String(), err)
			return nil
		}
		if err := s.notifier.BookingConfirmed(ctx, email, residency, visitDate); err != nil {
			log.Printf("booking confirmation for %s not queued: %v", email, err)
		}
	}
	return nil
}

func (s *userService) CancelBooking(ctx context.Context, email string, residencyID utils.SixID) error {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !CanCancel(user, residencyID) {
		return ErrBookingNotFound
	}

	var removed bool
	err = retryTimeout(func() error {
		var opErr error
		removed, opErr = s.users.RemoveBooking(ctx, email, residencyID)
		return opErr
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !removed {
		return ErrBookingNotFound
	}
	return nil
}

// GetFavorites resolves the user's favorite IDs into residency documents in
// one batched lookup. IDs whose residency has disappeared are skipped rather
// than failing the whole read.
func (s *userService) GetFavorites(ctx context.Context, email string) ([]models.Residency, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(user.FavoriteResidencyIDs) == 0 {
		return []models.Residency{}, nil
	}
	residencies, err := s.residencies.FindByIDs(ctx, user.FavoriteResidencyIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve favorites for %s: %w", email, err)
	}
	return residencies, nil
}

func (s *userService) GetBookings(ctx context.Context, email string) ([]models.BookedVisit, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.BookedVisits == nil {
		return []models.BookedVisit{}, nil
	}
	return user.BookedVisits, nil
}
