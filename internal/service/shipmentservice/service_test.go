package shipmentservice_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/service/shipmentservice"
)

// MockShipmentRepository é uma implementação mock da interface ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) List(ctx context.Context, scope domain.ShipmentScope) ([]domain.Shipment, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id string) (domain.Shipment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Create(ctx context.Context, s domain.Shipment) (domain.Shipment, error) {
	args := m.Called(ctx, s)
	if echo, ok := args.Get(0).(func(context.Context, domain.Shipment) domain.Shipment); ok {
		return echo(ctx, s), args.Error(1)
	}
	return args.Get(0).(domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, id string, upd domain.ShipmentStatusUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockShipmentRepository) SetBoxAWBs(ctx context.Context, shipmentID string, boxes []domain.Box) error {
	args := m.Called(ctx, shipmentID, boxes)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher registra os eventos publicados.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }

func newService() (*shipmentservice.Service, *MockShipmentRepository, *MockPublisher) {
	repo := new(MockShipmentRepository)
	pub := new(MockPublisher)
	return shipmentservice.NewService(repo, pub, "GS", logger.NewNop()), repo, pub
}

var (
	admin    = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	brandA   = domain.Principal{UserID: "brand-user", Role: domain.RoleBrand, BrandID: "brand-a"}
	centerSC = domain.Principal{UserID: "sc-1", Role: domain.RoleServiceCenter}
)

func strPtr(s string) *string { return &s }

func scenario() []domain.Shipment {
	return []domain.Shipment{
		{ID: "s1", Status: "DELIVERED", BrandID: "brand-a", Boxes: []domain.Box{{ID: "b1", AWBNumber: strPtr("A1"), Status: "DELIVERED"}}},
		{ID: "s2", Status: "IN_TRANSIT", BrandID: "brand-a", Boxes: []domain.Box{{ID: "b2", Status: "IN_TRANSIT"}}},
	}
}

// --- Escopo ---

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.Principal
		q       domain.ShipmentQuery
		want    domain.ShipmentScope
		wantErr interface{}
	}{
		{"admin any brand", admin, domain.ShipmentQuery{BrandID: "x", UserID: "sc-9", Role: "service_center"}, domain.ShipmentScope{BrandID: "x", ServiceCenterID: "sc-9"}, nil},
		{"brand pinned", brandA, domain.ShipmentQuery{}, domain.ShipmentScope{BrandID: "brand-a"}, nil},
		{"brand other brand", brandA, domain.ShipmentQuery{BrandID: "brand-b"}, domain.ShipmentScope{}, &apperror.ForbiddenError{}},
		{"service center self", centerSC, domain.ShipmentQuery{}, domain.ShipmentScope{ServiceCenterID: "sc-1"}, nil},
		{"service center other", centerSC, domain.ShipmentQuery{UserID: "sc-2"}, domain.ShipmentScope{}, &apperror.ForbiddenError{}},
		{"invalid role filter", admin, domain.ShipmentQuery{UserID: "u", Role: "pilot"}, domain.ShipmentScope{}, &apperror.ValidationError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shipmentservice.ResolveScope(tt.p, tt.q)
			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// --- List ---

func TestList_PendingBucket(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("List", mock.Anything, domain.ShipmentScope{BrandID: "brand-a"}).Return(scenario(), nil)

	result, err := svc.List(context.Background(), brandA, domain.ShipmentQuery{Bucket: "pending"})

	require.NoError(t, err)
	require.Len(t, result.Shipments, 1)
	assert.Equal(t, "s2", result.Shipments[0].ID)
	assert.Equal(t, 2, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Pending)
	assert.Equal(t, 1, result.Stats.Delivered)
	assert.Equal(t, 1, result.Stats.InTransit)
	repo.AssertExpectations(t)
}

func TestList_InvalidBucket(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.List(context.Background(), brandA, domain.ShipmentQuery{Bucket: "lost-and-found"})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "List")
}

func TestList_RepoError(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("List", mock.Anything, mock.Anything).Return([]domain.Shipment{}, errors.New("database connection lost"))

	_, err := svc.List(context.Background(), admin, domain.ShipmentQuery{})

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Falha interna ao listar remessas")
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	svc, repo, pub := newService()

	req := domain.NewShipmentRequest{
		ServiceCenterID: "sc-1",
		Courier:         "bluedart",
		Boxes: []domain.NewBoxRequest{
			{Weight: decimal.RequireFromString("1.5"), Parts: []domain.BoxPart{{PartID: "p-1", Quantity: 2}}},
			{Weight: decimal.NewFromInt(3), AWBNumber: strPtr(" GS123 ")},
		},
	}

	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.Shipment")).
		Return(func(_ context.Context, s domain.Shipment) domain.Shipment { return s }, nil)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(e domain.ShipmentEvent) bool {
		return e.Type == domain.ShipmentEventCreated && e.BrandID == "brand-a"
	})).Return(nil)

	created, err := svc.Create(context.Background(), brandA, req)

	require.NoError(t, err)
	assert.Equal(t, "brand-a", created.BrandID)
	assert.Equal(t, "CREATED", created.Status)
	require.Len(t, created.Boxes, 2)
	assert.Equal(t, 1, created.Boxes[0].BoxNumber)
	assert.Equal(t, "AWB_PENDING", created.Boxes[0].Status)
	assert.False(t, created.Boxes[0].HasAWB())
	assert.Equal(t, "PENDING", created.Boxes[1].Status)
	assert.Equal(t, "GS123", *created.Boxes[1].AWBNumber)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo, _ := newService()

	cases := map[string]domain.NewShipmentRequest{
		"no boxes":      {ServiceCenterID: "sc-1"},
		"no center":     {Boxes: []domain.NewBoxRequest{{Weight: decimal.NewFromInt(1)}}},
		"zero weight":   {ServiceCenterID: "sc-1", Boxes: []domain.NewBoxRequest{{Weight: decimal.Zero}}},
		"zero quantity": {ServiceCenterID: "sc-1", Boxes: []domain.NewBoxRequest{{Weight: decimal.NewFromInt(1), Parts: []domain.BoxPart{{PartID: "p", Quantity: 0}}}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), brandA, req)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_RejectsRepeatedPartsAndAWBs(t *testing.T) {
	svc, repo, _ := newService()

	cases := map[string]domain.NewShipmentRequest{
		"peça repetida na caixa": {ServiceCenterID: "sc-1", Boxes: []domain.NewBoxRequest{{
			Weight: decimal.NewFromInt(1),
			Parts:  []domain.BoxPart{{PartID: "p1", Quantity: 1}, {PartID: "p1", Quantity: 2}},
		}}},
		"AWB repetido entre caixas": {ServiceCenterID: "sc-1", Boxes: []domain.NewBoxRequest{
			{Weight: decimal.NewFromInt(1), AWBNumber: strPtr("GS1")},
			{Weight: decimal.NewFromInt(2), AWBNumber: strPtr(" GS1 ")},
		}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), brandA, req)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_SamePartInDifferentBoxes(t *testing.T) {
	svc, repo, pub := newService()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, s domain.Shipment) domain.Shipment { return s }, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Create(context.Background(), brandA, domain.NewShipmentRequest{
		ServiceCenterID: "sc-1",
		Boxes: []domain.NewBoxRequest{
			{Weight: decimal.NewFromInt(1), Parts: []domain.BoxPart{{PartID: "p1", Quantity: 1}}},
			{Weight: decimal.NewFromInt(1), Parts: []domain.BoxPart{{PartID: "p1", Quantity: 3}}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, created.Boxes, 2)
}

func TestCreate_AWBInUseIsConflict(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(domain.Shipment{}, apperror.NewConflictError("AWB GS1 já está em uso por outra caixa."))

	_, err := svc.Create(context.Background(), brandA, domain.NewShipmentRequest{
		ServiceCenterID: "sc-1",
		Boxes:           []domain.NewBoxRequest{{Weight: decimal.NewFromInt(1), AWBNumber: strPtr("GS1")}},
	})

	assert.IsType(t, &apperror.ConflictError{}, err)
	status, category, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 409, status)
	assert.Equal(t, "CONFLICT", category)
}

func TestCreate_ServiceCenterForbidden(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Create(context.Background(), centerSC, domain.NewShipmentRequest{})
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

func TestCreate_PublishFailureDoesNotFail(t *testing.T) {
	svc, repo, pub := newService()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, s domain.Shipment) domain.Shipment { return s }, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := svc.Create(context.Background(), admin, domain.NewShipmentRequest{
		BrandID: "brand-a", ServiceCenterID: "sc-1",
		Boxes: []domain.NewBoxRequest{{Weight: decimal.NewFromInt(1)}},
	})
	assert.NoError(t, err)
}

// --- Update ---

func TestUpdate_BoxWithoutAWBCannotDispatch(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.New().String()
	shipment := domain.Shipment{ID: id, BrandID: "brand-a", Status: "CREATED",
		Boxes: []domain.Box{{ID: "b1", BoxNumber: 1, Status: "AWB_PENDING"}}}
	repo.On("FindByID", mock.Anything, id).Return(shipment, nil)

	_, err := svc.Update(context.Background(), brandA, id, domain.ShipmentStatusUpdate{
		Boxes: []domain.BoxStatusUpdate{{BoxID: "b1", Status: "in transit"}},
	})

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "AWB")
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdate_Success_NormalizesStatus(t *testing.T) {
	svc, repo, pub := newService()
	id := uuid.New().String()
	shipment := domain.Shipment{ID: id, BrandID: "brand-a", ServiceCenterID: "sc-1", Status: "DISPATCHED",
		Boxes: []domain.Box{{ID: "b1", BoxNumber: 1, AWBNumber: strPtr("GS1"), Status: "DISPATCHED"}}}
	updated := shipment
	updated.Status = "DELIVERED"

	repo.On("FindByID", mock.Anything, id).Return(shipment, nil).Once()
	repo.On("UpdateStatus", mock.Anything, id, domain.ShipmentStatusUpdate{
		Status: "DELIVERED",
		Boxes:  []domain.BoxStatusUpdate{{BoxID: "b1", Status: "DELIVERED"}},
	}).Return(nil)
	repo.On("FindByID", mock.Anything, id).Return(updated, nil).Once()
	pub.On("Publish", mock.Anything, id, mock.Anything).Return(nil)

	result, err := svc.Update(context.Background(), centerSC, id, domain.ShipmentStatusUpdate{
		Status: "delivered",
		Boxes:  []domain.BoxStatusUpdate{{BoxID: "b1", Status: "Delivered"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", result.Status)
	repo.AssertExpectations(t)
}

func TestUpdate_UnknownStatus(t *testing.T) {
	svc, repo, _ := newService()
	_, err := svc.Update(context.Background(), admin, uuid.New().String(), domain.ShipmentStatusUpdate{Status: "teleported"})
	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "FindByID")
}

func TestGet_OtherTenantIsNotFound(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.New().String()
	repo.On("FindByID", mock.Anything, id).Return(domain.Shipment{ID: id, BrandID: "brand-b"}, nil)

	_, err := svc.Get(context.Background(), brandA, id)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// --- Regenerate AWB ---

func TestRegenerateAWB(t *testing.T) {
	svc, repo, pub := newService()
	id := uuid.New().String()
	shipment := domain.Shipment{ID: id, BrandID: "brand-a", Boxes: []domain.Box{
		{ID: "b1", BoxNumber: 1, Status: "AWB_PENDING"},
		{ID: "b2", BoxNumber: 2, AWBNumber: strPtr("OLD"), Status: "IN_TRANSIT"},
	}}
	repo.On("FindByID", mock.Anything, id).Return(shipment, nil)
	repo.On("SetBoxAWBs", mock.Anything, id, mock.AnythingOfType("[]domain.Box")).Return(nil)
	pub.On("Publish", mock.Anything, id, mock.MatchedBy(func(e domain.ShipmentEvent) bool {
		return e.Type == domain.ShipmentEventAWBRegenerated
	})).Return(nil)

	result, err := svc.RegenerateAWB(context.Background(), brandA, id)

	require.NoError(t, err)
	awbFormat := regexp.MustCompile(`^GS\d{10}$`)
	for _, b := range result.Boxes {
		require.True(t, b.HasAWB())
		assert.Regexp(t, awbFormat, *b.AWBNumber)
	}
	assert.Equal(t, "PENDING", result.Boxes[0].Status)
	assert.Equal(t, "IN_TRANSIT", result.Boxes[1].Status)
	assert.NotEqual(t, "OLD", *result.Boxes[1].AWBNumber)
	// a remessa original não é alterada
	assert.False(t, shipment.Boxes[0].HasAWB())
	repo.AssertExpectations(t)
}

func TestRegenerateAWB_ServiceCenterForbidden(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.New().String()
	repo.On("FindByID", mock.Anything, id).Return(domain.Shipment{ID: id, ServiceCenterID: "sc-1"}, nil)

	_, err := svc.RegenerateAWB(context.Background(), centerSC, id)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}

// --- Export ---

func TestExport_FormatValidation(t *testing.T) {
	svc, repo, _ := newService()
	_, err := svc.Export(context.Background(), admin, domain.ShipmentQuery{}, "pdf")
	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "List")
}

func TestExport_CSV(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("List", mock.Anything, mock.Anything).Return(scenario(), nil)

	file, err := svc.Export(context.Background(), admin, domain.ShipmentQuery{Bucket: "delivered"}, "")

	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Data), "s1,DELIVERED,Delivered")
	assert.NotContains(t, string(file.Data), "s2,")
}
