package locationservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/service/locationservice"
)

// MockLocationRepository é uma implementação mock da interface LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetLocationByID(ctx context.Context, brandID, id string) (domain.Location, error) {
	args := m.Called(ctx, brandID, id)
	return args.Get(0).(domain.Location), args.Error(1)
}

func (m *MockLocationRepository) ListLocations(ctx context.Context, brandID string) ([]domain.Location, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockLocationRepository) UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(domain.Location), args.Error(1)
}

func (m *MockLocationRepository) DeleteLocation(ctx context.Context, brandID, id string) error {
	args := m.Called(ctx, brandID, id)
	return args.Error(0)
}

var brandA = domain.Principal{UserID: "u1", Role: domain.RoleBrand, BrandID: "brand-a"}

// --- Testes para CreateLocation ---

func TestCreateLocation_Success(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	newLocation := domain.Location{Name: "  Depósito Central ", Address: "Rua A, 1"}
	expectedInput := domain.Location{Name: "Depósito Central", Address: "Rua A, 1", BrandID: "brand-a", Type: domain.LocationWarehouse}
	expected := expectedInput
	expected.ID = uuid.New().String()
	expected.CreatedAt = time.Now()

	mockRepo.On("CreateLocation", mock.Anything, expectedInput).Return(expected, nil)

	result, err := svc.CreateLocation(context.Background(), brandA, newLocation)

	assert.NoError(t, err)
	assert.Equal(t, expected.ID, result.ID)
	assert.Equal(t, domain.LocationWarehouse, result.Type)
	mockRepo.AssertExpectations(t)
}

func TestCreateLocation_Fail_InvalidName(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.CreateLocation(context.Background(), brandA, domain.Location{Name: ""})
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "não pode ser vazio")

	_, err = svc.CreateLocation(context.Background(), brandA, domain.Location{Name: "ab"})
	assert.Contains(t, err.Error(), "entre 3 e 100")

	_, err = svc.CreateLocation(context.Background(), brandA, domain.Location{Name: "Loja", Type: "SPACESHIP"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	mockRepo.AssertNotCalled(t, "CreateLocation")
}

func TestCreateLocation_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("CreateLocation", mock.Anything, mock.Anything).Return(domain.Location{}, errors.New("database connection failed"))

	_, err := svc.CreateLocation(context.Background(), brandA, domain.Location{Name: "Loja Norte", Type: "store"})

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Falha interna ao criar local")
}

func TestCreateLocation_Fail_OtherBrand(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.CreateLocation(context.Background(), brandA, domain.Location{Name: "Loja", BrandID: "brand-b"})
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

// --- Testes para GetLocationByID ---

func TestGetLocationByID(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.GetLocationByID(context.Background(), brandA, "", "invalid-uuid")
	assert.Contains(t, err.Error(), "UUID válido")

	id := uuid.New().String()
	mockRepo.On("GetLocationByID", mock.Anything, "brand-a", id).Return(domain.Location{}, apperror.NewNotFoundError("Local não encontrado"))

	_, err = svc.GetLocationByID(context.Background(), brandA, "", id)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para Update/Delete ---

func TestUpdateLocation_Success(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	id := uuid.New().String()
	mockRepo.On("UpdateLocation", mock.Anything, domain.Location{ID: id, BrandID: "brand-a", Name: "Trânsito BR-116", Type: domain.LocationTransit}).
		Return(domain.Location{ID: id, Name: "Trânsito BR-116"}, nil)

	result, err := svc.UpdateLocation(context.Background(), brandA, domain.Location{ID: id, Name: "Trânsito BR-116", Type: "transit"})

	assert.NoError(t, err)
	assert.Equal(t, id, result.ID)
	mockRepo.AssertExpectations(t)
}

func TestDeleteLocation(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, logger.NewNop())

	id := uuid.New().String()
	mockRepo.On("DeleteLocation", mock.Anything, "brand-a", id).Return(nil)

	assert.NoError(t, svc.DeleteLocation(context.Background(), brandA, "", id))
	assert.IsType(t, &apperror.ValidationError{}, svc.DeleteLocation(context.Background(), brandA, "", "x"))
	mockRepo.AssertExpectations(t)
}
