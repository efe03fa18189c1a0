package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/excel"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memdb"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T, locker inventory.Locker) *api {
	t.Helper()
	store, err := memdb.New()
	require.NoError(t, err)
	if locker == nil {
		locker = lock.NewKeyedLocker()
	}
	svc := inventory.NewService(store, locker, inventory.Config{
		LockTimeout: time.Second,
		Now:         func() time.Time { return fixedNow },
		Logger:      zerolog.Nop(),
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    svc,
		Exporters: []ports.ReportExporter{pdf.NewReportPDFGenerator("Warung"), excel.NewReportXLSXGenerator()},
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})
	return &api{t: t, app: app}
}

func (a *api) do(method, path, role string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *api) createProduct(name string) string {
	resp := a.do(http.MethodPost, "/api/products", pkgjwt.RoleManager, dto.CreateProductRequest{SKU: "SKU-" + name, Name: name})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](a.t, resp).ID
}

func TestRouter_FlujoDeVentas(t *testing.T) {
	a := newAPI(t, nil)
	id := a.createProduct("Kopi Susu")

	resp := a.do(http.MethodPost, "/api/inventory/receipts", pkgjwt.RoleCashier,
		dto.RecordReceiptRequest{ProductID: id, Quantity: 10, Reason: "Pembelian", Reference: "PO-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(http.MethodPost, "/api/inventory/sales", pkgjwt.RoleCashier, dto.RecordSaleRequest{ProductID: id, Quantity: 3, OrderRef: "ORD-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "out", mov.Type)
	assert.Equal(t, int64(10), mov.PreviousStock)
	assert.Equal(t, int64(7), mov.NewStock)
	assert.Equal(t, testUserName, mov.UserName)

	resp = a.do(http.MethodPost, "/api/inventory/sales", pkgjwt.RoleCashier, dto.RecordSaleRequest{ProductID: id, Quantity: 8})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	require.NotNil(t, errBody.Details)
	assert.Equal(t, int64(1), errBody.Details.Shortfall)
	assert.Equal(t, int64(7), errBody.Details.Available)

	resp = a.do(http.MethodGet, "/api/inventory/products/"+id+"/movements?period=2025-03", pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.MovementResponse](t, resp), 2)

	resp = a.do(http.MethodGet, "/api/inventory/reports/2025-03", pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.PeriodReportResponse](t, resp)
	require.Len(t, report.Items, 1)
	assert.Equal(t, int64(0), report.Items[0].OpeningStock)
	assert.Equal(t, int64(10), report.Items[0].StockIn)
	assert.Equal(t, int64(3), report.Items[0].StockOut)
	assert.Equal(t, int64(7), report.Items[0].ClosingStock)
	assert.Equal(t, int64(7), report.Totals.ClosingStock)
}

func TestRouter_Errores(t *testing.T) {
	a := newAPI(t, nil)
	id := a.createProduct("Teh")

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		body   any
		status int
		code   string
	}{
		{"motivo faltante", http.MethodPost, "/api/inventory/receipts", pkgjwt.RoleCashier,
			dto.RecordReceiptRequest{ProductID: id, Quantity: 1}, http.StatusBadRequest, "MISSING_REASON"},
		{"cantidad negativa", http.MethodPost, "/api/inventory/sales", pkgjwt.RoleCashier,
			dto.RecordSaleRequest{ProductID: id, Quantity: -1}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"producto inexistente", http.MethodPost, "/api/inventory/sales", pkgjwt.RoleCashier,
			dto.RecordSaleRequest{ProductID: "nope", Quantity: 1}, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"sin product_id", http.MethodPost, "/api/inventory/sales", pkgjwt.RoleCashier,
			dto.RecordSaleRequest{Quantity: 1}, http.StatusBadRequest, "VALIDATION"},
		{"periodo inválido", http.MethodGet, "/api/inventory/reports/2025-13", pkgjwt.RoleCashier,
			nil, http.StatusBadRequest, "VALIDATION"},
		{"formato desconocido", http.MethodGet, "/api/inventory/reports/2025-03?format=csv", pkgjwt.RoleCashier,
			nil, http.StatusBadRequest, "VALIDATION"},
		{"cajero no ajusta", http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleCashier,
			dto.RecordAdjustmentRequest{ProductID: id, NewStock: 3, Reason: "Stock Opname"}, http.StatusForbidden, "FORBIDDEN"},
		{"sin token", http.MethodGet, "/api/products", "", nil, http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := a.do(tc.method, tc.path, tc.role, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestRouter_AperturaNoCambiaStock(t *testing.T) {
	a := newAPI(t, nil)
	id := a.createProduct("Gula")

	resp := a.do(http.MethodPut, "/api/inventory/opening-balances/2025-03", pkgjwt.RoleManager,
		dto.SetOpeningStockRequest{ProductID: id, Quantity: 50})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(50), decode[dto.OpeningBalanceResponse](t, resp).Quantity)

	resp = a.do(http.MethodGet, "/api/products/"+id, pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), decode[dto.ProductResponse](t, resp).CurrentStock)

	resp = a.do(http.MethodGet, "/api/inventory/reports/2025-03/products/"+id, pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pr := decode[dto.ProductReportDTO](t, resp)
	assert.Equal(t, int64(50), pr.OpeningStock)
	assert.Equal(t, "override", pr.OpeningSource)
	assert.Equal(t, int64(50), pr.ClosingStock)

	resp = a.do(http.MethodGet, "/api/inventory/opening-balances/2025-04?product_id="+id, pkgjwt.RoleCashier, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_ExportaReporte(t *testing.T) {
	a := newAPI(t, nil)
	a.createProduct("Kopi")

	resp := a.do(http.MethodGet, "/api/inventory/reports/2025-03?format=pdf", pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reporte-stock-2025-03.pdf")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = a.do(http.MethodGet, "/api/inventory/reports/2025-03?format=xlsx", pkgjwt.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	resp.Body.Close()
}

type busyLocker struct{}

func (busyLocker) Lock(_ context.Context, productID, _ string) (func(), error) {
	return nil, &domain.ConflictError{ProductID: productID, Holder: "kasir-2"}
}

func TestRouter_ConflictoConRetryAfter(t *testing.T) {
	a := newAPI(t, busyLocker{})
	id := a.createProduct("Roti")

	resp := a.do(http.MethodPost, "/api/inventory/receipts", pkgjwt.RoleCashier,
		dto.RecordReceiptRequest{ProductID: id, Quantity: 1, Reason: "Pembelian"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "CONCURRENCY_CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}
