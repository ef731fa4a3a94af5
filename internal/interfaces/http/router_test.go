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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/application/auth"
	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/application/reports"
	"github.com/jhoicas/gestion-comercial-api/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/afipws"
	apphttp "github.com/jhoicas/gestion-comercial-api/internal/interfaces/http"
	"github.com/jhoicas/gestion-comercial-api/internal/repotest"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

const (
	adminEmail    = "admin@comercial.test"
	adminPassword = "clave-segura-123"
)

type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(_ context.Context, _ billing.InvoicePDFData) ([]byte, error) {
	return []byte("%PDF-test"), nil
}

type stubReportRepo struct{}

func (stubReportRepo) SalesSummary(_ context.Context, _, _ time.Time) ([]repository.SalesSummaryRow, error) {
	return nil, nil
}

// newTestServer arma la API completa sobre el store en memoria y AFIP simulado.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	store := repotest.NewStore()
	r := store.Repos()
	issuer := billing.IssuerConfig{
		CUIT:         "20123456786",
		PointOfSale:  1,
		IVACondition: afip.IVAResponsableInscripto,
		BusinessName: "Comercial Test SRL",
	}

	authUC := auth.NewAuthUseCase(r.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	created, err := authUC.EnsureAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	ratesUC := rates.NewRatesUseCase(r.ExchangeRates, nil, nil, log)
	pdfUC := billing.NewPDFUseCase(r.Sales, r.Customers, stubPDF{}, issuer)
	orch := billing.NewAFIPOrchestrator(store, r.Sales, r.Customers, afipws.NewSimulatedService(), issuer, pdfUC, nil, log)
	saleUC := billing.NewSaleUseCase(store, r.Sales, r.Customers, ratesUC, issuer, orch, nil, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(r.Users),
		CustomerUC:       billing.NewCustomerUseCase(r.Customers),
		CategoryUC:       usecase.NewCategoryUseCase(r.Categories),
		ProductUC:        usecase.NewProductUseCase(store, r.Products, r.Categories),
		RatesUC:          ratesUC,
		SaleUC:           saleUC,
		InvoicePDF:       pdfUC,
		QuoteUC:          billing.NewQuoteUseCase(store, r.Quotes, ratesUC, issuer, saleUC),
		PaymentUC:        finance.NewPaymentUseCase(store, r.Payments, ratesUC, log),
		ChequeUC:         finance.NewChequeUseCase(store, r.Cheques, log),
		CurrentAccountUC: finance.NewCurrentAccountUseCase(store, r.Customers, r.CurrentAccount, nil),
		ReportUC:         reports.NewReportUseCase(stubReportRepo{}, r.Sales, nil),
		JWTSecret:        testJWTSecret,
		Log:              log,
	})
	return app
}

// call ejecuta la petición con body JSON opcional y devuelve status y cuerpo.
func call(t *testing.T, app *fiber.App, method, path, authHeader string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), "cuerpo: %s", body)
	return e.Code
}

func createID(t *testing.T, app *fiber.App, path, token string, body any) string {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, status, "cuerpo: %s", raw)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func riCustomer() map[string]any {
	return map[string]any{
		"name":              "Ferretería Norte SA",
		"doc_type":          afip.DocTypeCUIT,
		"doc_number":        "30-71234567-1",
		"iva_condition":     afip.IVAResponsableInscripto,
		"credit_limit":      "50000",
		"payment_term_days": 30,
	}
}

func TestLogin(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, status, "cuerpo: %s", raw)
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, apphttp.RoleAdmin, out.User.Role)

	status, raw = call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, status, "cuerpo: %s", raw)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, raw))
}

func TestLogin_BodyInvalido(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, raw))
}

func TestCustomers_CUITInvalidoYDuplicado(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)

	bad := riCustomer()
	bad["doc_number"] = "30712345670"
	status, raw := call(t, app, http.MethodPost, "/api/customers", token, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	createID(t, app, "/api/customers", token, riCustomer())
	status, raw = call(t, app, http.MethodPost, "/api/customers", token, riCustomer())
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(t, raw))
}

func TestCustomers_LimiteNegativoRechazado(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)

	in := riCustomer()
	in["credit_limit"] = "-1"
	status, raw := call(t, app, http.MethodPost, "/api/customers", token, in)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestUsers_SoloAdmin(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodGet, "/api/users", tokenForRole(t, apphttp.RoleVendedor), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	status, _ = call(t, app, http.MethodGet, "/api/users", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProducts_LowStockNoSeConfundeConID(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)

	status, raw := call(t, app, http.MethodGet, "/api/products/low-stock", token, nil)
	assert.Equal(t, http.StatusOK, status, "cuerpo: %s", raw)
}

func TestSales_IDNoUUID(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodGet, "/api/sales/no-es-uuid", tokenForRole(t, apphttp.RoleVendedor), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestSales_SinItems(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)
	customerID := createID(t, app, "/api/customers", token, riCustomer())

	status, raw := call(t, app, http.MethodPost, "/api/sales", token, map[string]any{
		"customer_id":       customerID,
		"payment_condition": "contado",
		"items":             []any{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

func TestSales_CrearFacturarYDescargarPDF(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)

	customerID := createID(t, app, "/api/customers", token, riCustomer())
	productID := createID(t, app, "/api/products", token, map[string]any{
		"code":         "T-100",
		"name":         "Taladro percutor",
		"price":        "1000",
		"currency":     "ARS",
		"stock":        "10",
		"min_stock":    "2",
		"tax_category": afip.TaxIVA21,
	})

	saleID := createID(t, app, "/api/sales", token, map[string]any{
		"customer_id":       customerID,
		"payment_condition": "contado",
		"items":             []map[string]any{{"product_id": productID, "quantity": "2"}},
	})

	status, raw := call(t, app, http.MethodPost, "/api/sales/"+saleID+"/invoice", token, nil)
	require.Equal(t, http.StatusOK, status, "cuerpo: %s", raw)
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &sale))
	assert.Equal(t, "invoiced", sale.Status)
	assert.Equal(t, "A", sale.InvoiceLetter)
	assert.NotEmpty(t, sale.CAE)
	assert.True(t, decimal.NewFromInt(2420).Equal(sale.Total), "total: %s", sale.Total)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+saleID+"/pdf", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".pdf")
	assert.Equal(t, "%PDF-test", string(body))

	// Segunda facturación de la misma venta.
	status, _ = call(t, app, http.MethodPost, "/api/sales/"+saleID+"/invoice", token, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestSales_StockInsuficiente(t *testing.T) {
	app := newTestServer(t)
	token := tokenForRole(t, apphttp.RoleVendedor)

	customerID := createID(t, app, "/api/customers", token, riCustomer())
	productID := createID(t, app, "/api/products", token, map[string]any{
		"code": "T-200", "name": "Amoladora", "price": "500", "stock": "1", "tax_category": afip.TaxIVA21,
	})

	status, raw := call(t, app, http.MethodPost, "/api/sales", token, map[string]any{
		"customer_id":       customerID,
		"payment_condition": "contado",
		"items":             []map[string]any{{"product_id": productID, "quantity": "3"}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))
}

func TestReports_ExportarSinExportador(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodGet, "/api/reports/sales/export", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(t, raw))
}

func TestRutas_SinToken(t *testing.T) {
	app := newTestServer(t)

	status, raw := call(t, app, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, raw))
}
