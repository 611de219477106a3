package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-operations-api/internal/application/analytics"
	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/infrastructure/events"
	"github.com/jhoicas/stock-operations-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-operations-api/internal/interfaces/http"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// Ids UUID como en el esquema de PostgreSQL.
var (
	vendorID   = uuid.NewString()
	mainID     = uuid.NewString()
	customerID = uuid.NewString()
	deskID     = uuid.NewString()
)

// buildAPI arma el router completo sobre el almacén en memoria.
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	s.AddLocation(&entity.Location{ID: vendorID, Name: "Partners/Vendors", Type: entity.LocationTypeVendor})
	s.AddLocation(&entity.Location{ID: mainID, Name: "WH/Stock", Type: entity.LocationTypeInternal})
	s.AddLocation(&entity.Location{ID: customerID, Name: "Partners/Customers", Type: entity.LocationTypeCustomer})
	s.AddProduct(&entity.Product{ID: deskID, SKU: "DESK-001", Name: "Escritorio", MinStockLevel: decimal.NewFromInt(20)})

	log := logger.Nop()
	pub := events.NoopPublisher{}
	timeout := 5 * time.Second

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		OperationUC: inventory.NewOperationUseCase(s, s.Operations(), s.Locations(), s.Products(), timeout, log),
		ValidateUC:  inventory.NewValidateOperationUseCase(s, s.Locations(), s.Products(), pub, timeout, log),
		CancelUC:    inventory.NewCancelOperationUseCase(s, s.Locations(), s.Products(), pub, timeout, log),
		StockUC:     inventory.NewStockQueryUseCase(s.Quants(), s.Ledger()),
		DashboardUC: analytics.NewDashboardUseCase(s.Dashboard()),
		JWTSecret:   testJWTSecret,
	})
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func receiptBody(ref string, demand int64) fiber.Map {
	return fiber.Map{
		"reference":               ref,
		"type":                    "RECEIPT",
		"source_location_id":      vendorID,
		"destination_location_id": mainID,
		"lines":                   []fiber.Map{{"product_id": deskID, "demand_quantity": demand}},
	}
}

func withSource(body fiber.Map, sourceID string) fiber.Map {
	body["source_location_id"] = sourceID
	return body
}

func createReceipt(t *testing.T, app *fiber.App, ref string, demand int64) dto.OperationResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/operations", "bodeguero", receiptBody(ref, demand))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.OperationResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RecepcionValidadaMueveStock(t *testing.T) {
	app, _ := buildAPI(t)
	op := createReceipt(t, app, "WH/IN/001", 12)
	assert.Equal(t, "DRAFT", op.Status)

	resp := call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/validate", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validated := decode[dto.OperationResponse](t, resp)
	assert.Equal(t, "DONE", validated.Status)

	resp = call(t, app, http.MethodGet, "/api/stock/quants/"+deskID+"/"+mainID, "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	q := decode[dto.QuantResponse](t, resp)
	assert.True(t, q.Quantity.Equal(decimal.NewFromInt(12)))

	resp = call(t, app, http.MethodGet, "/api/stock/ledger?reference=WH/IN/001", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := decode[dto.LedgerListResponse](t, resp)
	require.Equal(t, 1, ledger.Total)
	assert.Equal(t, vendorID, ledger.Items[0].SourceLocationID)

	resp = call(t, app, http.MethodGet, "/api/stock/reconciliation?product_id="+deskID+"&location_id="+mainID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.ReconciliationResponse](t, resp).Consistent)

	resp = call(t, app, http.MethodGet, "/api/dashboard/stats", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.DashboardStatsDTO](t, resp)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount, "12 < 20")
}

func TestAPI_ListarYConsultar(t *testing.T) {
	app, _ := buildAPI(t)
	op := createReceipt(t, app, "WH/IN/001", 1)
	createReceipt(t, app, "WH/IN/002", 1)

	resp := call(t, app, http.MethodGet, "/api/operations?status=DRAFT&limit=1", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.OperationListResponse](t, resp)
	assert.Equal(t, 2, list.Page.Total)
	assert.Len(t, list.Items, 1)

	resp = call(t, app, http.MethodGet, "/api/operations/"+op.ID, "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "WH/IN/001", decode[dto.OperationResponse](t, resp).Reference)

	resp = call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/confirm", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "READY", decode[dto.OperationResponse](t, resp).Status)

	resp = call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/cancel", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decode[dto.OperationResponse](t, resp).Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CodigosDeError(t *testing.T) {
	app, _ := buildAPI(t)
	op := createReceipt(t, app, "WH/IN/001", 5)
	resp := call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/validate", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		role       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"validar dos veces", http.MethodPost, "/api/operations/" + op.ID + "/validate", "admin", nil, http.StatusConflict, "INVALID_STATE"},
		{"operación inexistente", http.MethodPost, "/api/operations/" + uuid.NewString() + "/validate", "admin", nil, http.StatusNotFound, "NOT_FOUND"},
		{"id de operación no UUID", http.MethodPost, "/api/operations/WH-IN-001/validate", "admin", nil, http.StatusNotFound, "NOT_FOUND"},
		{"get con id no UUID", http.MethodGet, "/api/operations/WH-IN-001", "consulta", nil, http.StatusNotFound, "NOT_FOUND"},
		{"crear con ubicación no UUID", http.MethodPost, "/api/operations", "admin", withSource(receiptBody("WH/IN/003", 1), "WH-Stock"), http.StatusBadRequest, "VALIDATION"},
		{"quant con producto no UUID", http.MethodGet, "/api/stock/quants/DESK-001/" + mainID, "consulta", nil, http.StatusBadRequest, "VALIDATION"},
		{"referencia duplicada", http.MethodPost, "/api/operations", "admin", receiptBody("WH/IN/001", 1), http.StatusConflict, "CONFLICT"},
		{"demanda cero", http.MethodPost, "/api/operations", "admin", receiptBody("WH/IN/002", 0), http.StatusBadRequest, "VALIDATION"},
		{"cuerpo inválido", http.MethodPost, "/api/operations", "admin", "no-es-un-objeto", http.StatusBadRequest, "INVALID_BODY"},
		{"from mal formado", http.MethodGet, "/api/stock/ledger?product_id="+deskID+"&from=ayer", "consulta", nil, http.StatusBadRequest, "VALIDATION"},
		{"sin token", http.MethodGet, "/api/operations", "", nil, http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, tt.method, tt.path, tt.role, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestAPI_FalloDeAlmacenamientoEsReintentable(t *testing.T) {
	app, s := buildAPI(t)
	op := createReceipt(t, app, "WH/IN/001", 5)

	s.SetFault(func(step string) error {
		if step == memory.StepCommit {
			return errors.New("connection reset")
		}
		return nil
	})
	resp := call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/validate", "bodeguero", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "STORAGE", body.Code)
	assert.True(t, body.Retryable)

	s.SetFault(nil)
	resp = call(t, app, http.MethodPost, "/api/operations/"+op.ID+"/validate", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DONE", decode[dto.OperationResponse](t, resp).Status)
}

func TestAPI_Health(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
