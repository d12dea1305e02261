package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// PlaceholderTitle is shown for a booking whose residency no longer exists.
const PlaceholderTitle = "Property Not Found"

// BookingRow is one admin-view row joining a booked visit with its user and
// residency.
type BookingRow struct {
	// BookingKey identifies the (user, residency) pair the row came from.
	BookingKey     string      `json:"booking_key"`
	UserName       string      `json:"user_name"`
	UserEmail      string      `json:"user_email"`
	ResidencyID    utils.SixID `json:"residency_id"`
	ResidencyTitle string      `json:"residency_title"`
	Address        string      `json:"address,omitempty"`
	City           string      `json:"city,omitempty"`
	VisitDate      string      `json:"visit_date"`
}

type IBookingViewService interface {
	ListAllBookings(ctx context.Context) ([]BookingRow, error)
}

type bookingViewService struct {
	users       store.UserStore
	residencies store.ResidencyStore
}

func NewBookingViewService(users store.UserStore, residencies store.ResidencyStore) IBookingViewService {
	return &bookingViewService{users: users, residencies: residencies}
}

// ListAllBookings reconstructs the booking join across all users: one batched
// residency lookup, then a row per embedded visit. A visit whose residency
// has disappeared gets a placeholder title instead of failing the view.
func (s *bookingViewService) ListAllBookings(ctx context.Context) ([]BookingRow, error) {
	users, err := s.users.FindWithBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users with bookings: %w", err)
	}

	idSet := make(map[utils.SixID]struct{})
	var ids []utils.SixID
	for _, user := range users {
		for _, visit := range user.BookedVisits {
			if _, seen := idSet[visit.ResidencyID]; !seen {
				idSet[visit.ResidencyID] = struct{}{}
				ids = append(ids, visit.ResidencyID)
			}
		}
	}

	residencies, err := s.residencies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load booked residencies: %w", err)
	}
	byID := make(map[utils.SixID]models.Residency, len(residencies))
	for _, residency := range residencies {
		byID[residency.ID] = residency
	}

	rows := make([]BookingRow, 0)
	for _, user := range users {
		for _, visit := range user.BookedVisits {
			row := BookingRow{
				BookingKey:     user.ID.String() + "-" + visit.ResidencyID.String(),
				UserName:       user.Name,
				UserEmail:      user.Email,
				ResidencyID:    visit.ResidencyID,
				ResidencyTitle: PlaceholderTitle,
				VisitDate:      visit.VisitDate,
			}
			if residency, ok := byID[visit.ResidencyID]; ok {
				row.ResidencyTitle = residency.Title
				row.Address = residency.Address
				row.City = residency.City
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return visitDateKey(rows[i].VisitDate) > visitDateKey(rows[j].VisitDate)
	})
	return rows, nil
}

// visitDateKey turns a dd/mm/yyyy date into a yyyy/mm/dd string so that
// lexicographic order matches chronological order. Anything that is not
// three slash-separated parts is used as-is, which keeps malformed dates
// deterministically placed instead of breaking the sort.
func visitDateKey(visitDate string) string {
	parts := strings.Split(visitDate, "/")
	if len(parts) != 3 {
		return visitDate
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
