package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre el backend en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminID   = int64(1)
	cashierID = int64(7)
	otherID   = int64(8)
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Code    string            `json:"code"`
	Message string            `json:"error"`
	Details map[string]string `json:"details"`
}

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := memory.NewSeededStore()
	tx := memory.NewTxRunner(s)
	products := memory.NewProductRepository(s)
	salesRepo := memory.NewSaleRepository(s)
	reportRepo := memory.NewReportRepository(s)

	ledger := inventory.NewLedgerUseCase(tx, products, memory.NewCategoryRepository(s),
		memory.NewStockMovementRepository(s), zerolog.Nop(), inventory.DefaultMinimumStock)
	salesUC := sales.NewSalesUseCase(tx, ledger, salesRepo, reportRepo, memory.NewSettingsRepository(s),
		nil, zerolog.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger,
		Importer:  inventory.NewImportUseCase(ledger, zerolog.Nop()),
		Sales:     salesUC,
		Reports:   reports.NewReportsUseCase(reportRepo, salesRepo, products, zerolog.Nop()),
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})
	return &apiFixture{app: app, store: s}
}

func (f *apiFixture) call(t *testing.T, method, path string, userID int64, role string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenFor(t, userID, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "cuerpo: %s", raw)
	}
	return resp.StatusCode, env
}

func (f *apiFixture) admin(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	return f.call(t, method, path, adminID, pkgjwt.RoleAdmin, body)
}

func (f *apiFixture) cashier(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	return f.call(t, method, path, cashierID, pkgjwt.RoleCashier, body)
}

type productOut struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SellingPrice  string `json:"selling_price"`
	StockQuantity int    `json:"stock_quantity"`
	LowStock      bool   `json:"low_stock"`
}

func (f *apiFixture) createProduct(t *testing.T, name, barcode string, stock int) productOut {
	t.Helper()
	status, env := f.admin(t, http.MethodPost, "/api/products", map[string]any{
		"name":           name,
		"barcode":        barcode,
		"category_id":    1,
		"purchase_price": "2.00",
		"selling_price":  "3.50",
		"stock_quantity": stock,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var p productOut
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func (f *apiFixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	status, env := f.admin(t, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	require.Equal(t, http.StatusOK, status)
	var p productOut
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p.StockQuantity
}

type saleOut struct {
	SaleID        int64  `json:"sale_id"`
	ReceiptNumber string `json:"receipt_number"`
	TotalAmount   string `json:"total_amount"`
}

func saleBody(productID int64, qty int) map[string]any {
	return map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": qty, "unit_price": "3.50"}},
		"payment_method": "cash",
	}
}

func (f *apiFixture) sell(t *testing.T, userID int64, role string, productID int64, qty int) saleOut {
	t.Helper()
	status, env := f.call(t, http.MethodPost, "/api/sales", userID, role, saleBody(productID, qty))
	require.Equal(t, http.StatusCreated, status, env.Message)
	var out saleOut
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrearYConsultar(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Agua 500ml", "7700001", 24)
	assert.Equal(t, 24, p.StockQuantity)
	assert.Equal(t, "3.5", p.SellingPrice)

	status, env := f.cashier(t, http.MethodGet, "/api/products/barcode/7700001", nil)
	require.Equal(t, http.StatusOK, status)
	var got productOut
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, env.Success)
}

func TestProducts_CajeroNoPuedeCrear(t *testing.T) {
	f := newAPI(t)
	status, env := f.cashier(t, http.MethodPost, "/api/products", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestProducts_ValidacionDelCuerpo(t *testing.T) {
	f := newAPI(t)
	status, env := f.admin(t, http.MethodPost, "/api/products", map[string]any{"selling_price": "1.00"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "required", env.Details["name"])
	assert.False(t, env.Success)
}

func TestProducts_CuerpoMalFormado(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenFor(t, adminID, pkgjwt.RoleAdmin))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_CodigoDuplicado_Retorna409(t *testing.T) {
	f := newAPI(t)
	f.createProduct(t, "Agua", "7700001", 1)
	status, env := f.admin(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Otra agua", "barcode": "7700001", "purchase_price": "1", "selling_price": "2",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestProducts_IDInvalidoYNoEncontrado(t *testing.T) {
	f := newAPI(t)
	status, env := f.admin(t, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ID", env.Code)

	status, env = f.admin(t, http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestProducts_AjusteYLibroConsistente(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Pan", "", 10)

	status, env := f.admin(t, http.MethodPost, fmt.Sprintf("/api/products/%d/adjust", p.ID),
		map[string]any{"delta": -4, "reason": "merma"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, 6, f.stock(t, p.ID))

	status, env = f.admin(t, http.MethodPost, fmt.Sprintf("/api/products/%d/adjust", p.ID),
		map[string]any{"delta": -7})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 6, f.stock(t, p.ID))

	status, env = f.admin(t, http.MethodGet, fmt.Sprintf("/api/products/%d/ledger", p.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var check struct {
		LedgerSum  int  `json:"ledger_sum"`
		Consistent bool `json:"consistent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.True(t, check.Consistent)
	assert.Equal(t, 6, check.LedgerSum)
}

func TestProducts_Importar(t *testing.T) {
	f := newAPI(t)
	status, env := f.admin(t, http.MethodPost, "/api/products/import", map[string]any{
		"products": []map[string]any{
			{"name": "Chicle", "category": "Dulces", "purchase_price": "0.10", "selling_price": "0.25", "stock_quantity": 100},
			{"name": "", "selling_price": "1"},
		},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var res struct {
		Successful        int      `json:"successful"`
		Failed            int      `json:"failed"`
		CreatedCategories []string `json:"created_categories"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"Dulces"}, res.CreatedCategories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_CrearDescuentaStock(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)

	out := f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 3)
	assert.True(t, strings.HasPrefix(out.ReceiptNumber, "POS"), out.ReceiptNumber)
	assert.Equal(t, "10.5", out.TotalAmount)
	assert.Equal(t, 7, f.stock(t, p.ID))

	status, env := f.cashier(t, http.MethodGet, fmt.Sprintf("/api/sales/%d", out.SaleID), nil)
	require.Equal(t, http.StatusOK, status)
	var sale struct {
		CashierID int64 `json:"cashier_id"`
		Items     []any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sale))
	assert.Equal(t, cashierID, sale.CashierID)
	assert.Len(t, sale.Items, 1)
}

func TestSales_StockInsuficiente_Retorna409ConDetalle(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 2)

	status, env := f.cashier(t, http.MethodPost, "/api/sales", saleBody(p.ID, 5))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)
	assert.Equal(t, "2", env.Details["available"])
	assert.Equal(t, "5", env.Details["requested"])
	assert.Equal(t, 2, f.stock(t, p.ID))
}

func TestSales_SinLineas_Retorna400(t *testing.T) {
	f := newAPI(t)
	status, env := f.cashier(t, http.MethodPost, "/api/sales", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "items")
}

func TestSales_FallaDeAlmacenamiento_Retorna500SinEfectos(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 5)
	f.store.FailNext("sales.create_line")

	status, env := f.cashier(t, http.MethodPost, "/api/sales", saleBody(p.ID, 1))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STORAGE", env.Code)
	assert.Equal(t, 5, f.stock(t, p.ID))

	_, env = f.admin(t, http.MethodGet, "/api/sales", nil)
	var list []any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}

func TestSales_CajeroSoloVeSusVentas(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)
	own := f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 1)
	other := f.sell(t, otherID, pkgjwt.RoleCashier, p.ID, 1)

	status, env := f.cashier(t, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, status)
	var list []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, own.SaleID, list[0].ID)

	status, _ = f.cashier(t, http.MethodGet, fmt.Sprintf("/api/sales/%d", other.SaleID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.cashier(t, http.MethodGet, fmt.Sprintf("/api/sales/cashier/%d", otherID), nil)
	assert.Equal(t, http.StatusForbidden, status)

	_, env = f.admin(t, http.MethodGet, "/api/sales", nil)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)
}

func TestSales_AnularSoloAdminYUnaVez(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)
	sale := f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 4)
	path := fmt.Sprintf("/api/sales/%d/void", sale.SaleID)

	status, _ := f.cashier(t, http.MethodPost, path, map[string]any{"reason": "error"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env := f.admin(t, http.MethodPost, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status, "el motivo es obligatorio")
	assert.Equal(t, "required", env.Details["reason"])

	status, env = f.admin(t, http.MethodPost, path, map[string]any{"reason": "cliente devolvió"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, 10, f.stock(t, p.ID))

	status, env = f.admin(t, http.MethodPost, path, map[string]any{"reason": "otra vez"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestSales_EliminarRestauraStock(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)
	sale := f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 4)

	status, env := f.admin(t, http.MethodDelete, fmt.Sprintf("/api/sales/%d", sale.SaleID), nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, 10, f.stock(t, p.ID))

	status, _ = f.admin(t, http.MethodGet, fmt.Sprintf("/api/sales/%d", sale.SaleID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = f.admin(t, http.MethodGet, fmt.Sprintf("/api/inventory/movements?product_id=%d&kind=sale", p.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var movs []any
	require.NoError(t, json.Unmarshal(env.Data, &movs))
	assert.Empty(t, movs)
}

func TestSales_ReciboIncluyeNegocio(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)
	sale := f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 1)

	status, env := f.cashier(t, http.MethodGet, fmt.Sprintf("/api/sales/%d/receipt", sale.SaleID), nil)
	require.Equal(t, http.StatusOK, status)
	var receipt struct {
		Business struct {
			Name     string `json:"name"`
			Currency string `json:"currency"`
		} `json:"business"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	assert.NotEmpty(t, receipt.Business.Name)
	assert.Equal(t, "GHS", receipt.Business.Currency)
}

func TestSales_ResumenesYRanking(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 10)
	f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 2)

	status, env := f.cashier(t, http.MethodGet, "/api/sales/summary/daily", nil)
	require.Equal(t, http.StatusOK, status)
	var daily struct {
		Summary struct {
			TotalSales int `json:"total_sales"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &daily))
	assert.Equal(t, 1, daily.Summary.TotalSales)

	status, env = f.cashier(t, http.MethodGet, "/api/sales/summary/weekly", nil)
	require.Equal(t, http.StatusOK, status)
	var weekly struct {
		Daily []any `json:"daily"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &weekly))
	assert.Len(t, weekly.Daily, 7)

	status, env = f.cashier(t, http.MethodGet, "/api/sales/summary/monthly?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)

	status, _ = f.cashier(t, http.MethodGet, "/api/sales/top-products?period=today", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = f.cashier(t, http.MethodGet, "/api/sales/top-products?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "period", firstKey(env.Details))

	status, _ = f.cashier(t, http.MethodGet, "/api/sales/summary/daily?date=17-10-2026", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes y transversales
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, "Gaseosa", "", 3)
	f.sell(t, cashierID, pkgjwt.RoleCashier, p.ID, 1)

	status, _ := f.cashier(t, http.MethodGet, "/api/reports/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, status)

	for _, path := range []string{"/api/reports/dashboard", "/api/reports/inventory", "/api/reports/sales"} {
		status, env := f.admin(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path+": "+env.Message)
		assert.True(t, env.Success, path)
	}

	status, _ = f.admin(t, http.MethodGet, "/api/reports/sales?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_SinTokenYRutaInexistente(t *testing.T) {
	f := newAPI(t)
	status, env := f.call(t, http.MethodGet, "/api/products", 0, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", env.Code)

	status, env = f.admin(t, http.MethodGet, "/api/nada", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.Code)
}

func TestRequestLogger_AsignaRequestID(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", tokenFor(t, adminID, pkgjwt.RoleAdmin))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", tokenFor(t, adminID, pkgjwt.RoleAdmin))
	req.Header.Set(fiber.HeaderXRequestID, "caja-3")
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "caja-3", resp.Header.Get(fiber.HeaderXRequestID))
}

func firstKey(m map[string]string) string {
	for k := range m {
		return k
	}
	return ""
}
