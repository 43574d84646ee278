package partservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/service/partservice"
)

// MockPartRepository é uma implementação mock da interface PartRepository
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) Save(ctx context.Context, part domain.Part) (domain.Part, error) {
	args := m.Called(ctx, part)
	return args.Get(0).(domain.Part), args.Error(1)
}

func (m *MockPartRepository) FindByID(ctx context.Context, id string) (domain.Part, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Part), args.Error(1)
}

func (m *MockPartRepository) FindAll(ctx context.Context, filter domain.PartFilter) ([]domain.Part, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Part), args.Error(1)
}

func (m *MockPartRepository) Update(ctx context.Context, part domain.Part) (domain.Part, error) {
	args := m.Called(ctx, part)
	return args.Get(0).(domain.Part), args.Error(1)
}

func (m *MockPartRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	admin  = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	brandA = domain.Principal{UserID: "u-brand", Role: domain.RoleBrand, BrandID: "brand-a"}
	center = domain.Principal{UserID: "sc-1", Role: domain.RoleServiceCenter}
)

func TestCreatePart_StartsPending(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Part) bool {
		return p.ApprovalStatus == domain.ApprovalPending && p.BrandID == "brand-a" && p.Code == "BRK-01"
	})).Return(domain.Part{ID: "new", ApprovalStatus: domain.ApprovalPending}, nil)

	part, err := svc.CreatePart(context.Background(), brandA, domain.PartInput{
		Code: " BRK-01 ", Name: "Brake pad", Price: decimal.RequireFromString("12.50"), MSL: 4,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, part.ApprovalStatus)
	mockRepo.AssertExpectations(t)
}

func TestCreatePart_Validation(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	inputs := []domain.PartInput{
		{Code: "", Name: "x"},
		{Code: "c", Name: "x", Price: decimal.NewFromInt(-1)},
		{Code: "c", Name: "x", MSL: -1},
	}
	for _, in := range inputs {
		_, err := svc.CreatePart(context.Background(), brandA, in)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	_, err := svc.CreatePart(context.Background(), admin, domain.PartInput{Code: "c", Name: "x"})
	assert.IsType(t, &apperror.ValidationError{}, err, "admin precisa informar brand_id")

	_, err = svc.CreatePart(context.Background(), center, domain.PartInput{Code: "c", Name: "x"})
	assert.IsType(t, &apperror.ForbiddenError{}, err)

	mockRepo.AssertNotCalled(t, "Save")
}

func TestCreatePart_DuplicateCodeIsConflict(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.Part{}, apperror.NewConflictError("duplicado"))

	_, err := svc.CreatePart(context.Background(), brandA, domain.PartInput{Code: "c", Name: "x"})
	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestListParts_Scope(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("FindAll", mock.Anything, domain.PartFilter{BrandID: "brand-a", Name: "pad", Page: 1, Limit: 50}).
		Return([]domain.Part{{ID: "1"}}, nil).Once()
	parts, err := svc.ListParts(context.Background(), brandA, domain.PartFilter{Name: "pad"})
	require.NoError(t, err)
	assert.Len(t, parts, 1)

	mockRepo.On("FindAll", mock.Anything, domain.PartFilter{
		ApprovalStatus: []domain.ApprovalStatus{domain.ApprovalApproved}, Page: 2, Limit: 50,
	}).Return([]domain.Part{}, nil).Once()
	_, err = svc.ListParts(context.Background(), center, domain.PartFilter{Page: 2, Limit: 500})
	require.NoError(t, err)

	_, err = svc.ListParts(context.Background(), brandA, domain.PartFilter{BrandID: "brand-b"})
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockRepo.AssertExpectations(t)
}

func TestListParts_RepoError(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())
	mockRepo.On("FindAll", mock.Anything, mock.Anything).Return([]domain.Part{}, errors.New("database connection lost"))

	_, err := svc.ListParts(context.Background(), admin, domain.PartFilter{})

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Erro Interno: Falha interna ao buscar peças.")
}

func TestGetPart(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.GetPart(context.Background(), admin, "invalid-uuid")
	assert.IsType(t, &apperror.ValidationError{}, err)

	pending := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, pending).
		Return(domain.Part{ID: pending, BrandID: "brand-a", ApprovalStatus: domain.ApprovalPending}, nil)

	_, err = svc.GetPart(context.Background(), brandA, pending)
	assert.NoError(t, err)

	// peça não aprovada é invisível para a rede
	_, err = svc.GetPart(context.Background(), center, pending)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestUpdatePart_KeepsApprovalStatus(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.Part{ID: id, BrandID: "brand-a", Code: "old", ApprovalStatus: domain.ApprovalApproved}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Part) bool {
		return p.Code == "new" && p.ApprovalStatus == domain.ApprovalApproved && p.MSL == 7
	})).Return(domain.Part{ID: id, Code: "new", ApprovalStatus: domain.ApprovalApproved, MSL: 7}, nil)

	part, err := svc.UpdatePart(context.Background(), brandA, id, domain.PartInput{Code: "new", Name: "Pad", MSL: 7})

	require.NoError(t, err)
	assert.Equal(t, "new", part.Code)
	mockRepo.AssertExpectations(t)
}

func TestDeletePart_OtherBrandNotFound(t *testing.T) {
	mockRepo := new(MockPartRepository)
	svc := partservice.NewService(mockRepo, logger.NewNop())

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Part{ID: id, BrandID: "brand-b"}, nil)

	err := svc.DeletePart(context.Background(), brandA, id)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "Delete")
}
