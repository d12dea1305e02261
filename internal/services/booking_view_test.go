package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/store"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

func TestListAllBookings(t *testing.T) {
	users := store.NewMemoryUserStore()
	residencies := store.NewMemoryResidencyStore()
	svc := NewBookingViewService(users, residencies)
	ctx := context.Background()

	ana := seedUser(t, users, "ana@example.com")
	ben := seedUser(t, users, "ben@example.com")
	seedUser(t, users, "idle@example.com")

	flat := seedResidency(t, residencies, "Sea View Flat", "1 Ocean Rd")
	cabin := seedResidency(t, residencies, "Mountain Cabin", "9 Peak Way")

	_, err := users.AddBooking(ctx, ana.Email, models.BookedVisit{ResidencyID: flat.ID, VisitDate: "05/01/2027"})
	require.NoError(t, err)
	_, err = users.AddBooking(ctx, ana.Email, models.BookedVisit{ResidencyID: cabin.ID, VisitDate: "20/11/2026"})
	require.NoError(t, err)
	_, err = users.AddBooking(ctx, ben.Email, models.BookedVisit{ResidencyID: flat.ID, VisitDate: "31/12/2026"})
	require.NoError(t, err)

	rows, err := svc.ListAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3, "users without bookings must not contribute rows")

	// Newest visit first.
	assert.Equal(t, "05/01/2027", rows[0].VisitDate)
	assert.Equal(t, "31/12/2026", rows[1].VisitDate)
	assert.Equal(t, "20/11/2026", rows[2].VisitDate)

	assert.Equal(t, "Sea View Flat", rows[0].ResidencyTitle)
	assert.Equal(t, "ana@example.com", rows[0].UserEmail)
	assert.Equal(t, "1 Ocean Rd", rows[0].Address)
	assert.Equal(t, ana.ID.String()+"-"+flat.ID.String(), rows[0].BookingKey)
}

func TestListAllBookingsMissingResidency(t *testing.T) {
	users := store.NewMemoryUserStore()
	residencies := store.NewMemoryResidencyStore()
	svc := NewBookingViewService(users, residencies)
	ctx := context.Background()

	ana := seedUser(t, users, "ana@example.com")
	gone := utils.NewSixID()
	_, err := users.AddBooking(ctx, ana.Email, models.BookedVisit{ResidencyID: gone, VisitDate: "25/12/2026"})
	require.NoError(t, err)

	rows, err := svc.ListAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, PlaceholderTitle, rows[0].ResidencyTitle)
	assert.Empty(t, rows[0].Address)
	assert.Equal(t, gone, rows[0].ResidencyID)
}

func TestListAllBookingsEmpty(t *testing.T) {
	svc := NewBookingViewService(store.NewMemoryUserStore(), store.NewMemoryResidencyStore())

	rows, err := svc.ListAllBookings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestVisitDateKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"regular date", "25/12/2026", "2026/12/25"},
		{"single digit fields kept verbatim", "5/1/2027", "2027/1/5"},
		{"missing separators", "25-12-2026", "25-12-2026"},
		{"empty", "", ""},
		{"too many parts", "25/12/2026/extra", "25/12/2026/extra"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visitDateKey(tc.in))
		})
	}
}
