package models

import (
	"time"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// BookedVisit is one scheduled visit to a residency, embedded on the User.
// VisitDate is kept in the caller-normalized day/month/year text form and is
// stored verbatim; parsing/normalization is the transport layer's job.
type BookedVisit struct {
	ResidencyID utils.SixID `bson:"residency_id" json:"residency_id"`
	VisitDate   string      `bson:"visit_date" json:"visit_date"`
}

// User represents a marketplace account. The email is the natural key: every
// relation operation addresses the user by the verified principal email, not
// by the internal ID.
//
// Favorites and booked visits are embedded arrays on the user rather than a
// join collection. The store has no uniqueness constraint on array members,
// so set semantics (no duplicate favorite, at most one booking per residency)
// are enforced in application code.
type User struct {
	Base                 `bson:",inline"`
	Name                 string        `bson:"name,omitempty" json:"name,omitempty"`
	Email                string        `bson:"email" json:"email"`
	Image                string        `bson:"image,omitempty" json:"image,omitempty"`
	IsAdmin              bool          `bson:"is_admin" json:"is_admin"`
	FavoriteResidencyIDs []utils.SixID `bson:"favorite_residency_ids" json:"favorite_residency_ids"`
	BookedVisits         []BookedVisit `bson:"booked_visits" json:"booked_visits"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at"`
}

// HasBookingFor reports whether the user already holds a booking for the
// given residency.
func (u *User) HasBookingFor(residencyID utils.SixID) bool {
	for _, v := range u.BookedVisits {
		if v.ResidencyID == residencyID {
			return true
		}
	}
	return false
}

// HasFavorite reports whether the residency is in the user's favorite set.
func (u *User) HasFavorite(residencyID utils.SixID) bool {
	for _, id := range u.FavoriteResidencyIDs {
		if id == residencyID {
			return true
		}
	}
	return false
}
