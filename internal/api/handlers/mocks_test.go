package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// --- Mocks ---

// MockUserService
type MockUserService struct {
	mock.Mock
}

var _ services.IUserService = (*MockUserService)(nil)

func (m *MockUserService) RegisterIfAbsent(ctx context.Context, email, name, image string) (*models.User, error) {
	args := m.Called(ctx, email, name, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ToggleFavorite(ctx context.Context, email string, residencyID utils.SixID) ([]utils.SixID, error) {
	args := m.Called(ctx, email, residencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.SixID), args.Error(1)
}

func (m *MockUserService) BookVisit(ctx context.Context, email string, residencyID utils.SixID, visitDate string) error {
	args := m.Called(ctx, email, residencyID, visitDate)
	return args.Error(0)
}

func (m *MockUserService) CancelBooking(ctx context.Context, email string, residencyID utils.SixID) error {
	args := m.Called(ctx, email, residencyID)
	return args.Error(0)
}

func (m *MockUserService) GetFavorites(ctx context.Context, email string) ([]models.Residency, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Residency), args.Error(1)
}

func (m *MockUserService) GetBookings(ctx context.Context, email string) ([]models.BookedVisit, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookedVisit), args.Error(1)
}

// MockResidencyService
type MockResidencyService struct {
	mock.Mock
}

var _ services.IResidencyService = (*MockResidencyService)(nil)

func (m *MockResidencyService) Create(ctx context.Context, residency *models.Residency) (*models.Residency, error) {
	args := m.Called(ctx, residency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Residency), args.Error(1)
}

func (m *MockResidencyService) FindByID(ctx context.Context, id utils.SixID) (*models.Residency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Residency), args.Error(1)
}

func (m *MockResidencyService) List(ctx context.Context) ([]models.Residency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Residency), args.Error(1)
}

func (m *MockResidencyService) Update(ctx context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error) {
	args := m.Called(ctx, id, ownerID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Residency), args.Error(1)
}

func (m *MockResidencyService) AddImage(ctx context.Context, id utils.SixID, imageKey string) error {
	args := m.Called(ctx, id, imageKey)
	return args.Error(0)
}

func (m *MockResidencyService) Delete(ctx context.Context, id utils.SixID, requesterEmail string) error {
	args := m.Called(ctx, id, requesterEmail)
	return args.Error(0)
}

// MockBookingViewService
type MockBookingViewService struct {
	mock.Mock
}

var _ services.IBookingViewService = (*MockBookingViewService)(nil)

func (m *MockBookingViewService) ListAllBookings(ctx context.Context) ([]services.BookingRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.BookingRow), args.Error(1)
}

// MockS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, ownerID, residencyID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, ownerID, residencyID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Storage) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

// MockImageQueue
type MockImageQueue struct {
	mock.Mock
}

func (m *MockImageQueue) EnqueueImageProcess(ctx context.Context, s3Key string, residencyID utils.SixID) error {
	args := m.Called(ctx, s3Key, residencyID)
	return args.Error(0)
}
