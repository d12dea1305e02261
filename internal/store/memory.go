package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// MemoryUserStore is a mutex-guarded in-memory UserStore. It mirrors the
// Mongo adapter's semantics exactly, including the set-add and guarded-push
// behavior of the relation arrays, so service logic can be exercised without
// a database.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("insert user: %w", ErrDuplicate)
	}
	clone := *user
	s.users[user.Email] = &clone
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("find user by email: %w", ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id utils.SixID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("find user by id: %w", ErrNotFound)
}

func (s *MemoryUserStore) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, nil
}

func (s *MemoryUserStore) AddFavorite(_ context.Context, email string, residencyID utils.SixID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return fmt.Errorf("add favorite: %w", ErrNotFound)
	}
	for _, id := range user.FavoriteResidencyIDs {
		if id == residencyID {
			return nil
		}
	}
	user.FavoriteResidencyIDs = append(user.FavoriteResidencyIDs, residencyID)
	user.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStore) RemoveFavorite(_ context.Context, email string, residencyID utils.SixID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return fmt.Errorf("remove favorite: %w", ErrNotFound)
	}
	user.FavoriteResidencyIDs = removeID(user.FavoriteResidencyIDs, residencyID)
	user.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStore) AddBooking(_ context.Context, email string, visit models.BookedVisit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return false, fmt.Errorf("add booking: %w", ErrNotFound)
	}
	for _, v := range user.BookedVisits {
		if v.ResidencyID == visit.ResidencyID {
			return false, nil
		}
	}
	user.BookedVisits = append(user.BookedVisits, visit)
	user.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryUserStore) RemoveBooking(_ context.Context, email string, residencyID utils.SixID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return false, fmt.Errorf("remove booking: %w", ErrNotFound)
	}
	before := len(user.BookedVisits)
	user.BookedVisits = removeVisits(user.BookedVisits, residencyID)
	user.UpdatedAt = time.Now()
	return len(user.BookedVisits) < before, nil
}

func (s *MemoryUserStore) FindWithBookings(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.User
	for _, user := range s.users {
		if len(user.BookedVisits) > 0 {
			matched = append(matched, *user)
		}
	}
	return matched, nil
}

func (s *MemoryUserStore) RemoveFavoriteFromAll(_ context.Context, residencyID utils.SixID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var modified int64
	for _, user := range s.users {
		trimmed := removeID(user.FavoriteResidencyIDs, residencyID)
		if len(trimmed) < len(user.FavoriteResidencyIDs) {
			user.FavoriteResidencyIDs = trimmed
			user.UpdatedAt = time.Now()
			modified++
		}
	}
	return modified, nil
}

func (s *MemoryUserStore) RemoveBookingFromAll(_ context.Context, residencyID utils.SixID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var modified int64
	for _, user := range s.users {
		trimmed := removeVisits(user.BookedVisits, residencyID)
		if len(trimmed) < len(user.BookedVisits) {
			user.BookedVisits = trimmed
			user.UpdatedAt = time.Now()
			modified++
		}
	}
	return modified, nil
}

func removeID(ids []utils.SixID, target utils.SixID) []utils.SixID {
	kept := ids[:0:0]
	for _, id := range ids {
		if id != target {
			kept = append(kept, id)
		}
	}
	return kept
}

func removeVisits(visits []models.BookedVisit, residencyID utils.SixID) []models.BookedVisit {
	kept := visits[:0:0]
	for _, v := range visits {
		if v.ResidencyID != residencyID {
			kept = append(kept, v)
		}
	}
	return kept
}

// MemoryResidencyStore is the in-memory counterpart of the residency
// collection adapter.
type MemoryResidencyStore struct {
	mu          sync.Mutex
	residencies map[utils.SixID]*models.Residency

	// FailDelete makes Delete return ErrTimeout without removing anything,
	// for exercising partial-cascade handling.
	FailDelete bool
}

func NewMemoryResidencyStore() *MemoryResidencyStore {
	return &MemoryResidencyStore{residencies: make(map[utils.SixID]*models.Residency)}
}

func (s *MemoryResidencyStore) Insert(_ context.Context, residency *models.Residency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.residencies {
		if existing.Address == residency.Address && existing.OwnerID == residency.OwnerID {
			return fmt.Errorf("insert residency: %w", ErrDuplicate)
		}
	}
	if _, ok := s.residencies[residency.ID]; ok {
		return fmt.Errorf("insert residency: %w", ErrDuplicate)
	}
	clone := *residency
	s.residencies[residency.ID] = &clone
	return nil
}

func (s *MemoryResidencyStore) FindByID(_ context.Context, id utils.SixID) (*models.Residency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residency, ok := s.residencies[id]
	if !ok {
		return nil, fmt.Errorf("find residency by id: %w", ErrNotFound)
	}
	clone := *residency
	return &clone, nil
}

func (s *MemoryResidencyStore) FindByIDs(_ context.Context, ids []utils.SixID) ([]models.Residency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Residency
	for _, id := range ids {
		if residency, ok := s.residencies[id]; ok {
			matched = append(matched, *residency)
		}
	}
	return matched, nil
}

func (s *MemoryResidencyStore) FindAll(_ context.Context) ([]models.Residency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residencies := make([]models.Residency, 0, len(s.residencies))
	for _, residency := range s.residencies {
		residencies = append(residencies, *residency)
	}
	return residencies, nil
}

func (s *MemoryResidencyStore) AllIDs(_ context.Context) (map[utils.SixID]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[utils.SixID]struct{}, len(s.residencies))
	for id := range s.residencies {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *MemoryResidencyStore) Update(_ context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residency, ok := s.residencies[id]
	if !ok || residency.OwnerID != ownerID {
		return nil, fmt.Errorf("update residency: %w", ErrNotFound)
	}
	for field, value := range updates {
		applyResidencyField(residency, field, value)
	}
	residency.UpdatedAt = time.Now()
	clone := *residency
	return &clone, nil
}

func (s *MemoryResidencyStore) AddImage(_ context.Context, id utils.SixID, imageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	residency, ok := s.residencies[id]
	if !ok {
		return fmt.Errorf("add residency image: %w", ErrNotFound)
	}
	for _, key := range residency.Images {
		if key == imageKey {
			return nil
		}
	}
	residency.Images = append(residency.Images, imageKey)
	residency.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryResidencyStore) Delete(_ context.Context, id utils.SixID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete {
		return false, fmt.Errorf("delete residency: %w", ErrTimeout)
	}
	if _, ok := s.residencies[id]; !ok {
		return false, nil
	}
	delete(s.residencies, id)
	return true, nil
}

func applyResidencyField(residency *models.Residency, field string, value interface{}) {
	switch field {
	case "title":
		residency.Title, _ = value.(string)
	case "description":
		residency.Description, _ = value.(string)
	case "price":
		residency.Price, _ = value.(float64)
	case "address":
		residency.Address, _ = value.(string)
	case "city":
		residency.City, _ = value.(string)
	case "country":
		residency.Country, _ = value.(string)
	case "property_type":
		if pt, ok := value.(models.PropertyType); ok {
			residency.PropertyType = pt
		}
	case "category":
		residency.Category, _ = value.(string)
	case "facilities":
		if f, ok := value.(map[string]interface{}); ok {
			residency.Facilities = f
		}
	}
}
