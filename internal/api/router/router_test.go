package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goship/internal/api/analytics"
	"goship/internal/api/approval"
	"goship/internal/api/courier"
	"goship/internal/api/location"
	"goship/internal/api/network"
	"goship/internal/api/part"
	"goship/internal/api/router"
	"goship/internal/api/shipment"
	"goship/internal/api/stock"
	"goship/internal/api/supplier"
	"goship/internal/api/user"
	"goship/internal/pkg/cache"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/token"
	"goship/internal/shipmentstatus"
)

func newTestRouter(t *testing.T) (http.Handler, *token.Service) {
	t.Helper()
	log := logger.NewNop()
	tokenSvc := token.NewService("test-secret", time.Hour)
	h := router.Handlers{
		Shipment:  shipment.NewHandler(nil, log),
		Part:      part.NewHandler(nil, log),
		Approval:  approval.NewHandler(nil, log),
		Location:  location.NewHandler(nil, log),
		Supplier:  supplier.NewHandler(nil, log),
		Stock:     stock.NewHandler(nil, log),
		Courier:   courier.NewHandler(nil, log),
		Network:   network.NewHandler(nil, log),
		Analytics: analytics.NewHandler(nil, log),
		User:      user.NewHandler(nil, log),
	}
	opts := router.Options{RateLimitMaxRequests: 100, RateLimitPeriod: time.Minute}
	return router.NewRouter(h, tokenSvc, cache.NewMemoryClient(), opts, log), tokenSvc
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestOpenAPIDocument(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/shipments")
}

func TestShipmentStatusesTable(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/shipment-statuses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var table []shipmentstatus.Display
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Len(t, table, len(shipmentstatus.Table()))
}

func TestProtectedRoutes(t *testing.T) {
	r, tokenSvc := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/shipments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Papel de marca não acessa rotas de admin.
	brandToken, err := tokenSvc.GenerateToken("u1", "brand", "brand-a")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/part-approvals", nil)
	req.Header.Set("Authorization", "Bearer "+brandToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Centro de serviço não acessa o painel da marca.
	scToken, err := tokenSvc.GenerateToken("u2", "service_center", "")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/brand/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+scToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
