package services

import (
	"context"
	"fmt"
	"log"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// IReconcilerService sweeps the users collection for references to
// residencies that no longer exist and removes them. Dangling references can
// only appear through out-of-band writes or an interrupted cleanup that was
// never retried; the sweep is the backstop that restores the invariant.
type IReconcilerService interface {
	SweepDanglingRefs(ctx context.Context) (int64, error)
}

type reconcilerService struct {
	users       store.UserStore
	residencies store.ResidencyStore
}

func NewReconcilerService(users store.UserStore, residencies store.ResidencyStore) IReconcilerService {
	return &reconcilerService{users: users, residencies: residencies}
}

// SweepDanglingRefs removes every favorite and booking reference whose
// residency is gone and returns the number of documents modified. The
// residency ID set is snapshotted first, so a residency created mid-sweep is
// never treated as dangling; one deleted mid-sweep is caught by the next run.
func (s *reconcilerService) SweepDanglingRefs(ctx context.Context) (int64, error) {
	existing, err := s.residencies.AllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot residency ids: %w", err)
	}
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load users for sweep: %w", err)
	}

	dangling := make(map[utils.SixID]struct{})
	for i := range users {
		favorites, bookings := DanglingRefs(&users[i], existing)
		for _, id := range favorites {
			dangling[id] = struct{}{}
		}
		for _, id := range bookings {
			dangling[id] = struct{}{}
		}
	}

	var modified int64
	for id := range dangling {
		n, err := s.users.RemoveFavoriteFromAll(ctx, id)
		if err != nil {
			return modified, fmt.Errorf("sweep favorites of %s: %w", id, err)
		}
		modified += n
		n, err = s.users.RemoveBookingFromAll(ctx, id)
		if err != nil {
			return modified, fmt.Errorf("sweep bookings of %s: %w", id, err)
		}
		modified += n
		log.Printf("swept dangling references to residency %s", id)
	}
	return modified, nil
}
