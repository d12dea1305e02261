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

// ResidencyCache caches the full residency listing. A nil cache disables
// caching; cache failures degrade to store reads.
type ResidencyCache interface {
	GetAll(ctx context.Context) ([]models.Residency, error)
	SetAll(ctx context.Context, residencies []models.Residency) error
	Invalidate(ctx context.Context) error
}

type IResidencyService interface {
	Create(ctx context.Context, residency *models.Residency) (*models.Residency, error)
	FindByID(ctx context.Context, id utils.SixID) (*models.Residency, error)
	List(ctx context.Context) ([]models.Residency, error)
	Update(ctx context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error)
	AddImage(ctx context.Context, id utils.SixID, imageKey string) error
	Delete(ctx context.Context, id utils.SixID, requesterEmail string) error
}

type residencyService struct {
	residencies store.ResidencyStore
	users       store.UserStore
	cache       ResidencyCache
}

func NewResidencyService(residencies store.ResidencyStore, users store.UserStore, cache ResidencyCache) IResidencyService {
	return &residencyService{residencies: residencies, users: users, cache: cache}
}

func (s *residencyService) Create(ctx context.Context, residency *models.Residency) (*models.Residency, error) {
	now := time.Now()
	residency.CreatedAt = now
	residency.UpdatedAt = now
	if residency.Images == nil {
		residency.Images = []string{}
	}

	// An ID collision is repaired by regenerating; a persistent duplicate is
	// the (address, owner) unique index firing.
	err := db.WithRetries(func() error {
		residency.GenID()
		return s.residencies.Insert(ctx, residency)
	}, db.DefaultMaxRetries, func(err error) bool {
		return errors.Is(err, store.ErrDuplicate)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrResidencyExists
	}
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return residency, nil
}

func (s *residencyService) FindByID(ctx context.Context, id utils.SixID) (*models.Residency, error) {
	residency, err := s.residencies.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrResidencyNotFound
	}
	return residency, err
}

func (s *residencyService) List(ctx context.Context) ([]models.Residency, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAll(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	residencies, err := s.residencies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetAll(ctx, residencies); err != nil {
			log.Printf("residency listing not cached: %v", err)
		}
	}
	return residencies, nil
}

func (s *residencyService) Update(ctx context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error) {
	residency, err := s.residencies.Update(ctx, id, ownerID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrResidencyNotFound
	}
	if err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)
	return residency, nil
}

func (s *residencyService) AddImage(ctx context.Context, id utils.SixID, imageKey string) error {
	err := s.residencies.AddImage(ctx, id, imageKey)
	if errors.Is(err, store.ErrNotFound) {
		return ErrResidencyNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

// Delete removes a residency together with every reference to it embedded in
// user documents. References are cleaned first and the parent document is
// deleted last, so an interrupted run leaves only a still-listed residency
// with fewer references, never a dangling reference. Every step is
// idempotent and the whole operation can simply be retried.
func (s *residencyService) Delete(ctx context.Context, id utils.SixID, requesterEmail string) error {
	residency, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	requester, err := s.users.FindByEmail(ctx, requesterEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !requester.IsAdmin && residency.OwnerID != requester.ID {
		return ErrResidencyNotFound
	}

	err = retryTimeout(func() error {
		_, opErr := s.users.RemoveFavoriteFromAll(ctx, id)
		return opErr
	})
	if err != nil {
		return fmt.Errorf("clean favorite references for %s: %w", id, err)
	}

	err = retryTimeout(func() error {
		_, opErr := s.users.RemoveBookingFromAll(ctx, id)
		return opErr
	})
	if err != nil {
		return fmt.Errorf("clean booking references for %s: %w", id, err)
	}

	err = retryTimeout(func() error {
		_, opErr := s.residencies.Delete(ctx, id)
		return opErr
	})
	if err != nil {
		// References are gone but the parent document remains.
		return fmt.Errorf("delete residency %s: %w", id, ErrPartialCascade)
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *residencyService) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("residency listing cache not invalidated: %v", err)
	}
}
