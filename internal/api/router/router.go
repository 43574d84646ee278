package router

import (
	_ "embed"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"goship/internal/api/analytics"
	"goship/internal/api/approval"
	"goship/internal/api/courier"
	"goship/internal/api/location"
	"goship/internal/api/network"
	"goship/internal/api/part"
	"goship/internal/api/shipment"
	"goship/internal/api/stock"
	"goship/internal/api/supplier"
	"goship/internal/api/user"
	"goship/internal/domain"
	"goship/internal/pkg/cache"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
	"goship/internal/shipmentstatus"
)

//go:embed openapi.json
var openAPIDoc []byte

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Shipment  *shipment.Handler
	Part      *part.Handler
	Approval  *approval.Handler
	Location  *location.Handler
	Supplier  *supplier.Handler
	Stock     *stock.Handler
	Courier   *courier.Handler
	Network   *network.Handler
	Analytics *analytics.Handler
	User      *user.Handler
}

// Options controla os middlewares globais.
type Options struct {
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	ExposeStack          bool
}

// NewRouter configura e retorna o roteador HTTP principal.
// Usa os padrões "MÉTODO /caminho/{param}" do ServeMux (Go 1.22+).
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, opts Options, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc, log)
	authenticated := func(f http.HandlerFunc) http.Handler { return auth(f) }
	withRoles := func(f http.HandlerFunc, roles ...domain.UserRole) http.Handler {
		return auth(middleware.PermissionMiddleware(log, roles...)(f))
	}
	adminOnly := func(f http.HandlerFunc) http.Handler { return withRoles(f, domain.RoleAdmin) }
	brandOrAdmin := func(f http.HandlerFunc) http.Handler { return withRoles(f, domain.RoleAdmin, domain.RoleBrand) }

	// --- 1. Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.HandleFunc("GET /v1/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDoc)
	})
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/v1/openapi.json")))
	mux.HandleFunc("GET /v1/shipment-statuses", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, log, http.StatusOK, shipmentstatus.Table())
	})

	// --- 2. Usuários (públicas) ---
	mux.HandleFunc("POST /v1/users/register", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/users/login", h.User.LoginUserHandler)

	// --- 3. Remessas ---
	mux.Handle("GET /v1/shipments", authenticated(h.Shipment.ListShipmentsHandler))
	mux.Handle("POST /v1/shipments", authenticated(h.Shipment.CreateShipmentHandler))
	mux.Handle("GET /v1/shipments/stats", authenticated(h.Shipment.StatsHandler))
	mux.Handle("GET /v1/shipments/export", authenticated(h.Shipment.ExportHandler))
	mux.Handle("GET /v1/shipments/{id}", authenticated(h.Shipment.GetShipmentHandler))
	mux.Handle("PUT /v1/shipments/{id}", authenticated(h.Shipment.UpdateShipmentHandler))
	mux.Handle("DELETE /v1/shipments/{id}", authenticated(h.Shipment.DeleteShipmentHandler))
	mux.Handle("POST /v1/shipments/{id}/regenerate-awb", authenticated(h.Shipment.RegenerateAWBHandler))
	mux.Handle("GET /v1/shipments/{id}/cost-breakdown", authenticated(h.Courier.CostBreakdownHandler))

	// --- 4. Catálogo de peças ---
	mux.Handle("GET /v1/parts", authenticated(h.Part.ListPartsHandler))
	mux.Handle("POST /v1/parts", brandOrAdmin(h.Part.CreatePartHandler))
	mux.Handle("GET /v1/parts/{id}", authenticated(h.Part.GetPartHandler))
	mux.Handle("PUT /v1/parts/{id}", brandOrAdmin(h.Part.UpdatePartHandler))
	mux.Handle("DELETE /v1/parts/{id}", brandOrAdmin(h.Part.DeletePartHandler))

	// --- 5. Estoque ---
	mux.Handle("POST /v1/stock/adjust", brandOrAdmin(h.Stock.AdjustStockHandler))
	mux.Handle("GET /v1/stock", brandOrAdmin(h.Stock.ListStockHandler))
	mux.Handle("GET /v1/brand/restock-alerts", brandOrAdmin(h.Stock.RestockAlertsHandler))

	// --- 6. Painel da marca ---
	mux.Handle("GET /v1/brand/inventory/locations", brandOrAdmin(h.Location.ListLocationsHandler))
	mux.Handle("POST /v1/brand/inventory/locations", brandOrAdmin(h.Location.CreateLocationHandler))
	mux.Handle("GET /v1/brand/inventory/locations/{id}", brandOrAdmin(h.Location.GetLocationHandler))
	mux.Handle("PUT /v1/brand/inventory/locations/{id}", brandOrAdmin(h.Location.UpdateLocationHandler))
	mux.Handle("DELETE /v1/brand/inventory/locations/{id}", brandOrAdmin(h.Location.DeleteLocationHandler))

	mux.Handle("GET /v1/brand/inventory/suppliers", brandOrAdmin(h.Supplier.ListSuppliersHandler))
	mux.Handle("POST /v1/brand/inventory/suppliers", brandOrAdmin(h.Supplier.CreateSupplierHandler))
	mux.Handle("GET /v1/brand/inventory/suppliers/export", brandOrAdmin(h.Supplier.ExportSuppliersHandler))
	mux.Handle("GET /v1/brand/inventory/suppliers/{id}", brandOrAdmin(h.Supplier.GetSupplierHandler))
	mux.Handle("PUT /v1/brand/inventory/suppliers/{id}", brandOrAdmin(h.Supplier.UpdateSupplierHandler))
	mux.Handle("DELETE /v1/brand/inventory/suppliers/{id}", brandOrAdmin(h.Supplier.DeleteSupplierHandler))

	mux.Handle("GET /v1/brand/network", brandOrAdmin(h.Network.ListHandler))
	mux.Handle("POST /v1/brand/network/bulk", brandOrAdmin(h.Network.BulkUploadHandler))
	mux.Handle("DELETE /v1/brand/network/{user_id}", brandOrAdmin(h.Network.RemoveHandler))

	mux.Handle("GET /v1/brand/analytics", brandOrAdmin(h.Analytics.DashboardHandler))

	// --- 7. Administração ---
	mux.Handle("GET /v1/admin/part-approvals", adminOnly(h.Approval.ListQueueHandler))
	mux.Handle("PUT /v1/admin/part-approvals/{part_id}", adminOnly(h.Approval.DecideHandler))
	mux.Handle("GET /v1/admin/part-approvals/{part_id}/history", adminOnly(h.Approval.HistoryHandler))
	mux.Handle("POST /v1/admin/courier-overrides", adminOnly(h.Courier.CreateOverrideHandler))
	mux.Handle("GET /v1/admin/courier-overrides", adminOnly(h.Courier.ListOverridesHandler))

	// --- 8. Middlewares globais (de fora para dentro) ---
	var handler http.Handler = mux
	handler = middleware.RateLimiter(cacheClient, opts.RateLimitMaxRequests, opts.RateLimitPeriod, log)(handler)
	handler = middleware.RequestLogger(log)(handler)
	handler = middleware.Recover(log, opts.ExposeStack)(handler)
	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
