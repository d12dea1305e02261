package services

import (
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// The guard functions are pure predicates over in-memory documents. They
// never touch the store, so callers can validate a state transition before
// issuing the write and the background sweep can reuse the same rules.

// CanBook reports whether the user may book a visit to the residency: only
// when no booking for it exists yet.
func CanBook(user *models.User, residencyID utils.SixID) bool {
	return !user.HasBookingFor(residencyID)
}

// CanCancel reports whether the user holds a booking for the residency.
func CanCancel(user *models.User, residencyID utils.SixID) bool {
	return user.HasBookingFor(residencyID)
}

// IsFavorite reports whether the residency is in the user's favorite set.
func IsFavorite(user *models.User, residencyID utils.SixID) bool {
	return user.HasFavorite(residencyID)
}

// DanglingRefs returns the user's favorite and booking references that point
// at residencies absent from the given ID set.
func DanglingRefs(user *models.User, existing map[utils.SixID]struct{}) (favorites, bookings []utils.SixID) {
	for _, id := range user.FavoriteResidencyIDs {
		if _, ok := existing[id]; !ok {
			favorites = append(favorites, id)
		}
	}
	for _, visit := range user.BookedVisits {
		if _, ok := existing[visit.ResidencyID]; !ok {
			bookings = append(bookings, visit.ResidencyID)
		}
	}
	return favorites, bookings
}
