package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func item(productID, qty string) dto.ItemRequest {
	return dto.ItemRequest{ProductID: productID, Quantity: dec(qty)}
}

func TestCreateSale_ContadoConsumidorFinal(t *testing.T) {
	e := newEnv(t)
	res, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "2")},
	})
	require.NoError(t, err)

	assert.Equal(t, afip.VoucherFacturaB, res.InvoiceType)
	assert.Equal(t, "B", res.InvoiceLetter)
	assert.Equal(t, int64(1), res.Number)
	assert.True(t, dec("2000").Equal(res.NetTaxed))
	assert.True(t, dec("420").Equal(res.IVATotal))
	assert.True(t, dec("2420").Equal(res.Total))
	assert.Equal(t, entity.SaleStatusPending, res.Status)
	assert.Equal(t, entity.AFIPStatusNotRequested, res.AFIPStatus)
	assert.Equal(t, "Taladro", res.Items[0].Description)

	assert.True(t, dec("8").Equal(e.stock(t, e.productID)))
	assert.True(t, e.balance(t, e.cfID).IsZero(), "contado no genera movimiento de cuenta corriente")
}

func TestCreateSale_ConvierteDolares(t *testing.T) {
	e := newEnv(t)
	res, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.usdID, "1")},
	})
	require.NoError(t, err)
	assert.True(t, dec("10000").Equal(res.Items[0].UnitPrice))
	assert.True(t, dec("10000").Equal(res.NetExempt))
	assert.True(t, dec("1000").Equal(res.ExchangeRate))
}

func TestCreateSale_PrecioInformado(t *testing.T) {
	e := newEnv(t)
	price := dec("500")
	res, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items: []dto.ItemRequest{
			{ProductID: e.productID, Quantity: dec("1"), UnitPrice: &price, Discount: dec("10")},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("450").Equal(res.NetTaxed))
	assert.True(t, dec("94.5").Equal(res.IVATotal))
}

func TestCreateSale_RedondeaLineasALaEscalaPersistida(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	price := dec("33.333")
	res, err := e.sales.Create(ctx, "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionContado,
		Items: []dto.ItemRequest{
			{ProductID: e.productID, Quantity: dec("3.0004"), UnitPrice: &price, Discount: dec("0.004")},
		},
	})
	require.NoError(t, err)
	line := res.Items[0]
	assert.True(t, dec("33.33").Equal(line.UnitPrice), "precio: %s", line.UnitPrice)
	assert.True(t, dec("3").Equal(line.Quantity), "cantidad: %s", line.Quantity)
	assert.True(t, line.Discount.IsZero(), "descuento: %s", line.Discount)
	assert.True(t, dec("99.99").Equal(res.NetTaxed), "neto: %s", res.NetTaxed)

	// Los importes recalculados desde las líneas guardadas coinciden: se puede facturar.
	invoiced, err := e.sales.Invoice(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusInvoiced, invoiced.Status)
	assert.True(t, res.Total.Equal(invoiced.Total))
}

func TestCreateSale_CantidadQueRedondeaACeroEsInvalida(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "0.0004")},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreateSale_CuentaCorrienteDebita(t *testing.T) {
	e := newEnv(t)
	res, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionCuentaCorriente,
		Items:            []dto.ItemRequest{item(e.productID, "3")},
	})
	require.NoError(t, err)
	assert.Equal(t, afip.VoucherFacturaA, res.InvoiceType)
	assert.True(t, dec("3630").Equal(e.balance(t, e.riID)))

	items, err := e.store.Repos().CurrentAccount.ListByCustomer(context.Background(), e.riID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.LedgerConceptVenta, items[0].Concept)
	assert.Equal(t, res.ID, items[0].SaleID)
}

func TestCreateSale_LimiteDeCreditoExcedido(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionCuentaCorriente,
		Items:            []dto.ItemRequest{item(e.productID, "9")}, // 10890 > 10000
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))
	assert.True(t, dec("10").Equal(e.stock(t, e.productID)))
}

func TestCreateSale_SinCreditoConsumidorFinal(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionCuentaCorriente,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))
}

func TestCreateSale_StockInsuficienteRevierte(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "6"), item(e.productID, "5")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	list, err := e.sales.List(context.Background(), dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
	assert.True(t, dec("10").Equal(e.stock(t, e.productID)))
}

func TestCreateSale_ClienteOProductoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       "nope",
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item("nope", "1")},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoice_AsignaCAE(t *testing.T) {
	e := newEnv(t)
	e.afip.last[afip.VoucherFacturaA] = 41
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	res, err := e.sales.Invoice(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusInvoiced, res.Status)
	assert.Equal(t, entity.AFIPStatusAuthorized, res.AFIPStatus)
	assert.Equal(t, int64(42), res.VoucherNumber)
	assert.Equal(t, "00003-00000042", res.FormattedNumber)
	assert.NotEmpty(t, res.CAE)

	require.Len(t, e.afip.requests, 1)
	req := e.afip.requests[0]
	assert.Equal(t, afip.DocTypeCUIT, req.DocType)
	assert.Equal(t, int64(30712345671), req.DocNumber)
	require.Len(t, req.IVA, 1)
	assert.Equal(t, 5, req.IVA[0].AFIPID)

	_, err = e.sales.Invoice(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "no se factura dos veces")
}

func TestInvoice_RechazoAFIP(t *testing.T) {
	e := newEnv(t)
	e.afip.err = errors.Join(domain.ErrAFIPRejected, errors.New("10016: fecha fuera de rango"))
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	_, err = e.sales.Invoice(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrAFIPRejected))

	got, err := e.sales.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, got.Status)
	assert.Equal(t, entity.AFIPStatusRejected, got.AFIPStatus)
	assert.Contains(t, got.AFIPErrors, "10016")
}

func TestInvoice_AFIPNoDisponible(t *testing.T) {
	e := newEnv(t)
	e.afip.err = errors.New("dial tcp: timeout")
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	_, err = e.sales.Invoice(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrAFIPUnavailable))
	got, _ := e.sales.GetByID(context.Background(), sale.ID)
	assert.Equal(t, entity.AFIPStatusError, got.AFIPStatus)
}

func TestInvoiceAsync_EncolaYBloqueaAnulacion(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	st, err := e.sales.InvoiceAsync(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AFIPStatusQueued, st.AFIPStatus)
	assert.Equal(t, "task-"+sale.ID, st.TaskID)
	assert.Equal(t, []string{sale.ID}, e.enqueuer.ids)

	_, err = e.sales.InvoiceAsync(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	_, err = e.sales.Cancel(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestInvoice_VentaEncoladaQuedaParaElWorker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)
	_, err = e.sales.InvoiceAsync(ctx, sale.ID)
	require.NoError(t, err)

	_, err = e.sales.Invoice(ctx, sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Empty(t, e.afip.requests)

	// el worker sí autoriza la venta encolada, una sola vez
	authorized, err := e.orch.Authorize(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusInvoiced, authorized.Status)
	_, err = e.orch.Authorize(ctx, sale.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, 1, e.requestCount(afip.VoucherFacturaB))
}

func TestInvoice_ReclamoEnCurso(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	e.setAFIPStatus(t, sale.ID, entity.AFIPStatusAuthorizing, time.Now())
	_, err = e.sales.Invoice(ctx, sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	_, err = e.orch.Authorize(ctx, sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	_, err = e.sales.Cancel(ctx, sale.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Empty(t, e.afip.requests)

	// un reclamo abandonado vence y la venta puede volver a facturarse
	e.setAFIPStatus(t, sale.ID, entity.AFIPStatusAuthorizing, time.Now().Add(-claimTTL-time.Minute))
	res, err := e.sales.Invoice(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AFIPStatusAuthorized, res.AFIPStatus)
}

func TestInvoiceAsync_FallaAlEncolar(t *testing.T) {
	e := newEnv(t)
	e.enqueuer.err = errors.New("redis caído")
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)

	_, err = e.sales.InvoiceAsync(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrAFIPUnavailable))
	got, _ := e.sales.GetByID(context.Background(), sale.ID)
	assert.Equal(t, entity.AFIPStatusError, got.AFIPStatus)
}

func TestCancel_PendienteCuentaCorriente(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionCuentaCorriente,
		Items:            []dto.ItemRequest{item(e.productID, "2")},
	})
	require.NoError(t, err)

	res, err := e.sales.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, res.Status)
	assert.NotNil(t, res.CancelledAt)
	assert.Zero(t, res.CreditNoteNumber)
	assert.True(t, e.balance(t, e.riID).IsZero())
	assert.True(t, dec("10").Equal(e.stock(t, e.productID)))
	assert.Empty(t, e.afip.requests)

	_, err = e.sales.Cancel(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCancel_FacturadaEmiteNotaDeCredito(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)
	_, err = e.sales.Invoice(context.Background(), sale.ID)
	require.NoError(t, err)

	res, err := e.sales.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, afip.VoucherNotaCreditoA, res.CreditNoteType)
	assert.Equal(t, int64(1), res.CreditNoteNumber)
	assert.NotEmpty(t, res.CreditNoteCAE)

	require.Len(t, e.afip.requests, 2)
	nc := e.afip.requests[1]
	require.NotNil(t, nc.Associated)
	assert.Equal(t, afip.VoucherFacturaA, nc.Associated.VoucherType)
	assert.Equal(t, int64(1), nc.Associated.Number)
}

func TestCancel_NotaDeCreditoRechazadaNoAnula(t *testing.T) {
	e := newEnv(t)
	sale, err := e.sales.Create(context.Background(), "u-1", dto.CreateSaleRequest{
		CustomerID:       e.cfID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)
	_, err = e.sales.Invoice(context.Background(), sale.ID)
	require.NoError(t, err)

	e.afip.err = errors.Join(domain.ErrAFIPRejected, errors.New("rechazo"))
	_, err = e.sales.Cancel(context.Background(), sale.ID)
	assert.True(t, errors.Is(err, domain.ErrAFIPRejected))

	got, _ := e.sales.GetByID(context.Background(), sale.ID)
	assert.Equal(t, entity.SaleStatusInvoiced, got.Status)
	assert.Equal(t, entity.AFIPStatusAuthorized, got.AFIPStatus, "se libera el reclamo")
	assert.True(t, dec("9").Equal(e.stock(t, e.productID)))

	e.afip.err = nil
	res, err := e.sales.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, res.Status)
}

func TestCancel_ConcurrenteEmiteUnaSolaNotaDeCredito(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "u-1", dto.CreateSaleRequest{
		CustomerID:       e.riID,
		PaymentCondition: entity.PaymentConditionContado,
		Items:            []dto.ItemRequest{item(e.productID, "1")},
	})
	require.NoError(t, err)
	_, err = e.sales.Invoice(ctx, sale.ID)
	require.NoError(t, err)

	e.afip.delay = 30 * time.Millisecond
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.sales.Cancel(ctx, sale.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidTransition), "error: %v", err)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, e.requestCount(afip.VoucherNotaCreditoA))

	got, err := e.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, got.Status)
	assert.Equal(t, entity.AFIPStatusAuthorized, got.AFIPStatus)
	assert.True(t, dec("10").Equal(e.stock(t, e.productID)))
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, 4, int(to.Month()))
	assert.Equal(t, 1, to.Day())

	_, _, err = ParseDateRange("2024-03-31", "2024-03-01")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, _, err = ParseDateRange("31/03/2024", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
