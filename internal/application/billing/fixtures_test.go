package billing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/repotest"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testIssuer = IssuerConfig{
	CUIT:         "20123456786",
	PointOfSale:  3,
	IVACondition: afip.IVAResponsableInscripto,
	BusinessName: "Comercial Test SRL",
}

// fakeRates cotización fija por moneda.
type fakeRates map[string]decimal.Decimal

func (f fakeRates) LatestSellRate(_ context.Context, currency string) (decimal.Decimal, error) {
	if currency == entity.CurrencyARS {
		return decimal.NewFromInt(1), nil
	}
	r, ok := f[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: sin cotización %s", domain.ErrNotFound, currency)
	}
	return r, nil
}

// fakeAFIP simula WSFEv1 con numeración por tipo de comprobante.
type fakeAFIP struct {
	mu       sync.Mutex
	last     map[int]int64
	err      error
	delay    time.Duration // demora de cada solicitud
	requests []VoucherRequest
}

func newFakeAFIP() *fakeAFIP { return &fakeAFIP{last: map[int]int64{}} }

func (f *fakeAFIP) LastAuthorized(_ context.Context, _ int, voucherType int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[voucherType], nil
}

func (f *fakeAFIP) Authorize(_ context.Context, req VoucherRequest) (*VoucherResult, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	f.last[req.VoucherType] = req.Number
	return &VoucherResult{
		Number:     req.Number,
		CAE:        fmt.Sprintf("7412345678%04d", req.Number),
		CAEDueDate: time.Now().AddDate(0, 0, 10),
	}, nil
}

type fakeEnqueuer struct {
	ids []string
	err error
}

func (f *fakeEnqueuer) EnqueueAuthorize(_ context.Context, saleID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.ids = append(f.ids, saleID)
	return "task-" + saleID, nil
}

type env struct {
	store     *repotest.Store
	afip      *fakeAFIP
	enqueuer  *fakeEnqueuer
	orch      *AFIPOrchestrator
	sales     *SaleUseCase
	quotes    *QuoteUseCase
	riID      string // cliente responsable inscripto con crédito
	cfID      string // consumidor final sin crédito
	productID string // $1000 + IVA 21%, stock 10
	usdID     string // USD 10 exento, stock 5
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := repotest.NewStore()
	r := store.Repos()
	now := time.Now()

	e := &env{
		store:     store,
		afip:      newFakeAFIP(),
		enqueuer:  &fakeEnqueuer{},
		riID:      "c-ri",
		cfID:      "c-cf",
		productID: "p-1",
		usdID:     "p-usd",
	}
	require.NoError(t, r.Customers.Create(ctx, &entity.Customer{
		ID: e.riID, Name: "Cliente RI SA", DocType: afip.DocTypeCUIT, DocNumber: "30712345671",
		IVACondition: afip.IVAResponsableInscripto, CreditLimit: dec("10000"), IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, r.Customers.Create(ctx, &entity.Customer{
		ID: e.cfID, Name: "Consumidor Final", DocType: afip.DocTypeSinIdentificar,
		IVACondition: afip.IVAConsumidorFinal, IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: e.productID, Code: "A001", Name: "Taladro", Price: dec("1000"), Currency: entity.CurrencyARS,
		Stock: dec("10"), TaxCategory: afip.TaxIVA21, IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: e.usdID, Code: "I001", Name: "Repuesto importado", Price: dec("10"), Currency: entity.CurrencyUSD,
		Stock: dec("5"), TaxCategory: afip.TaxExento, IsActive: true, CreatedAt: now,
	}))

	rates := fakeRates{entity.CurrencyUSD: dec("1000")}
	e.orch = NewAFIPOrchestrator(store, r.Sales, r.Customers, e.afip, testIssuer, nil, nil, nil)
	e.sales = NewSaleUseCase(store, r.Sales, r.Customers, rates, testIssuer, e.orch, e.enqueuer, nil)
	e.quotes = NewQuoteUseCase(store, r.Quotes, rates, testIssuer, e.sales)
	return e
}

// requestCount solicitudes recibidas por AFIP del tipo de comprobante indicado.
func (e *env) requestCount(voucherType int) int {
	e.afip.mu.Lock()
	defer e.afip.mu.Unlock()
	n := 0
	for _, r := range e.afip.requests {
		if r.VoucherType == voucherType {
			n++
		}
	}
	return n
}

// setAFIPStatus fuerza el estado AFIP guardado de una venta.
func (e *env) setAFIPStatus(t *testing.T, saleID, status string, updatedAt time.Time) {
	t.Helper()
	ctx := context.Background()
	s, err := e.store.Repos().Sales.GetByID(ctx, saleID)
	require.NoError(t, err)
	s.AFIPStatus = status
	s.UpdatedAt = updatedAt
	require.NoError(t, e.store.Repos().Sales.Update(ctx, s))
}

func (e *env) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := e.store.Repos().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func (e *env) balance(t *testing.T, customerID string) decimal.Decimal {
	t.Helper()
	b, err := e.store.Repos().CurrentAccount.LastBalance(context.Background(), customerID)
	require.NoError(t, err)
	return b
}
