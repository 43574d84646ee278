package network_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goship/internal/api/network"
	"goship/internal/domain"
	"goship/internal/pkg/csvio"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
)

type MockNetworkService struct {
	mock.Mock
}

func (m *MockNetworkService) List(ctx context.Context, p domain.Principal, brandID, rawRole string) ([]domain.NetworkMember, error) {
	args := m.Called(ctx, p, brandID, rawRole)
	return args.Get(0).([]domain.NetworkMember), args.Error(1)
}

func (m *MockNetworkService) Remove(ctx context.Context, p domain.Principal, brandID, userID string) error {
	return m.Called(ctx, p, brandID, userID).Error(0)
}

func (m *MockNetworkService) BulkUpload(ctx context.Context, p domain.Principal, brandID string, rows []csvio.NumberedRow) (domain.BulkResult, error) {
	args := m.Called(ctx, p, brandID, rows)
	return args.Get(0).(domain.BulkResult), args.Error(1)
}

var brandUser = domain.Principal{UserID: "u1", Role: domain.RoleBrand, BrandID: "brand-a"}

func post(h *network.Handler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/brand/network/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), brandUser))
	rec := httptest.NewRecorder()
	h.BulkUploadHandler(rec, req)
	return rec
}

func TestBulkUpload_CSV(t *testing.T) {
	svc := new(MockNetworkService)
	h := network.NewHandler(svc, logger.NewNop())

	svc.On("BulkUpload", mock.Anything, brandUser, "", mock.MatchedBy(func(rows []csvio.NumberedRow) bool {
		return len(rows) == 2 && rows[0].Line == 2 && rows[1].Row.RoleType == "distributor"
	})).Return(domain.BulkResult{Created: 2, Errors: []domain.BulkRowError{}}, nil)

	rec := post(h, "text/csv; charset=utf-8", "user_id,role_type\nu-1,service_center\nu-2,distributor\n")

	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Created)
}

func TestBulkUpload_HeaderMismatch(t *testing.T) {
	svc := new(MockNetworkService)
	h := network.NewHandler(svc, logger.NewNop())

	rec := post(h, "text/csv", "id,role\nu-1,service_center\n")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "BulkUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpload_JSON(t *testing.T) {
	svc := new(MockNetworkService)
	h := network.NewHandler(svc, logger.NewNop())

	svc.On("BulkUpload", mock.Anything, brandUser, "", []csvio.NumberedRow{
		{Line: 1, Row: domain.NetworkRow{UserID: "u-1", RoleType: "distributor"}},
	}).Return(domain.BulkResult{Created: 1}, nil)

	rec := post(h, "application/json", `[{"user_id":"u-1","role_type":"distributor"}]`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBulkUpload_UnsupportedContentType(t *testing.T) {
	h := network.NewHandler(new(MockNetworkService), logger.NewNop())
	rec := post(h, "application/xml", "<rows/>")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
