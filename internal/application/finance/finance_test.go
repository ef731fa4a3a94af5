package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/internal/repotest"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixedRate decimal.Decimal

func (f fixedRate) LatestSellRate(context.Context, string) (decimal.Decimal, error) {
	return decimal.Decimal(f), nil
}

type fakeExporter struct{ got *dto.CurrentAccountResponse }

func (f *fakeExporter) ExportStatement(_ context.Context, st *dto.CurrentAccountResponse) ([]byte, error) {
	f.got = st
	return []byte("xlsx"), nil
}

const customerID = "c-1"

func newStore(t *testing.T) *repotest.Store {
	t.Helper()
	store := repotest.NewStore()
	require.NoError(t, store.Repos().Customers.Create(context.Background(), &entity.Customer{
		ID: customerID, Name: "Ferretería Sur", DocType: afip.DocTypeCUIT, DocNumber: "30712345671",
		IVACondition: afip.IVAResponsableInscripto, CreditLimit: dec("50000"), IsActive: true,
	}))
	return store
}

func post(t *testing.T, store *repotest.Store, e Entry) *entity.CurrentAccountItem {
	t.Helper()
	var item *entity.CurrentAccountItem
	require.NoError(t, store.Run(context.Background(), func(r repository.Repos) error {
		var err error
		item, err = PostEntry(context.Background(), r, e)
		return err
	}))
	return item
}

func balance(t *testing.T, store *repotest.Store) decimal.Decimal {
	t.Helper()
	b, err := store.Repos().CurrentAccount.LastBalance(context.Background(), customerID)
	require.NoError(t, err)
	return b
}

func TestPostEntry_SaldoAcumulado(t *testing.T) {
	store := newStore(t)
	first := post(t, store, Entry{CustomerID: customerID, Concept: entity.LedgerConceptVenta, Debit: dec("1210")})
	assert.Equal(t, entity.LedgerDebit, first.Type)
	assert.True(t, dec("1210").Equal(first.Balance))

	second := post(t, store, Entry{CustomerID: customerID, Concept: entity.LedgerConceptPago, Credit: dec("1000.004")})
	assert.Equal(t, entity.LedgerCredit, second.Type)
	assert.True(t, dec("1000").Equal(second.Credit))
	assert.True(t, dec("210").Equal(second.Balance))
}

func TestPostEntry_DebeYHaberInvalidos(t *testing.T) {
	store := newStore(t)
	cases := []Entry{
		{CustomerID: customerID},
		{CustomerID: customerID, Debit: dec("10"), Credit: dec("10")},
		{CustomerID: customerID, Debit: dec("-10")},
	}
	for _, e := range cases {
		err := store.Run(context.Background(), func(r repository.Repos) error {
			_, err := PostEntry(context.Background(), r, e)
			return err
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
	err := store.Run(context.Background(), func(r repository.Repos) error {
		_, err := PostEntry(context.Background(), r, Entry{CustomerID: "nope", Debit: dec("1")})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckCreditLimit(t *testing.T) {
	store := newStore(t)
	post(t, store, Entry{CustomerID: customerID, Concept: entity.LedgerConceptVenta, Debit: dec("40000")})
	r := store.Repos()
	c, _ := r.Customers.GetByID(context.Background(), customerID)

	assert.NoError(t, CheckCreditLimit(context.Background(), r, c, dec("10000")))
	assert.True(t, errors.Is(CheckCreditLimit(context.Background(), r, c, dec("10000.01")), domain.ErrCreditLimitExceeded))

	c.CreditLimit = decimal.Zero
	assert.True(t, errors.Is(CheckCreditLimit(context.Background(), r, c, dec("1")), domain.ErrCreditLimitExceeded))
}

func chequePayment(amount string) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		CustomerID: customerID,
		Method:     entity.PaymentMethodCheque,
		Amount:     dec(amount),
		Cheque: &dto.ChequeRequest{
			Number:     "00012345",
			Bank:       "Banco Nación",
			IssuerCUIT: "20-12345678-6",
			IssueDate:  "2024-05-01",
			DueDate:    "2024-06-30",
		},
	}
}

func TestCreatePayment_EfectivoAcredita(t *testing.T) {
	store := newStore(t)
	post(t, store, Entry{CustomerID: customerID, Concept: entity.LedgerConceptVenta, Debit: dec("5000")})
	uc := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)

	res, err := uc.Create(context.Background(), "u-1", dto.CreatePaymentRequest{
		CustomerID: customerID, Method: entity.PaymentMethodEfectivo, Amount: dec("2000"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CurrencyARS, res.Currency)
	assert.True(t, dec("2000").Equal(res.AmountARS))
	assert.Equal(t, entity.PaymentStatusApplied, res.Status)
	assert.True(t, dec("3000").Equal(balance(t, store)))
}

func TestCreatePayment_DolaresConCotizacion(t *testing.T) {
	store := newStore(t)
	uc := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1050")), nil)

	res, err := uc.Create(context.Background(), "u-1", dto.CreatePaymentRequest{
		CustomerID: customerID, Method: entity.PaymentMethodTransferencia, Currency: "USD", Amount: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, dec("105000").Equal(res.AmountARS))

	rate := dec("1000")
	res, err = uc.Create(context.Background(), "u-1", dto.CreatePaymentRequest{
		CustomerID: customerID, Method: entity.PaymentMethodTransferencia, Currency: "USD", Amount: dec("10"),
		ExchangeRate: &rate,
	})
	require.NoError(t, err)
	assert.True(t, dec("10000").Equal(res.AmountARS))
	assert.True(t, dec("-115000").Equal(balance(t, store)))
}

func TestCreatePayment_ChequeCreaCartera(t *testing.T) {
	store := newStore(t)
	uc := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)

	res, err := uc.Create(context.Background(), "u-1", chequePayment("15000"))
	require.NoError(t, err)
	require.NotEmpty(t, res.ChequeID)

	c, err := store.Repos().Cheques.GetByID(context.Background(), res.ChequeID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChequeStatusPending, c.Status)
	assert.Equal(t, res.ID, c.PaymentID)
	assert.Equal(t, "20123456786", c.IssuerCUIT)
	assert.True(t, dec("15000").Equal(c.Amount))

	_, err = uc.Create(context.Background(), "u-1", chequePayment("100"))
	assert.True(t, errors.Is(err, domain.ErrConflict), "mismo cheque dos veces")
	assert.True(t, dec("-15000").Equal(balance(t, store)))
}

func TestCreatePayment_Validaciones(t *testing.T) {
	store := newStore(t)
	uc := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u-1", dto.CreatePaymentRequest{CustomerID: customerID, Method: entity.PaymentMethodCheque, Amount: dec("10")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cheque sin datos")

	usd := chequePayment("10")
	usd.Currency = "USD"
	_, err = uc.Create(ctx, "u-1", usd)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cheque en dólares")

	bad := chequePayment("10")
	bad.Cheque.DueDate = "2024-04-01"
	_, err = uc.Create(ctx, "u-1", bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "vencimiento anterior a emisión")

	badCUIT := chequePayment("10")
	badCUIT.Cheque.IssuerCUIT = "20123456780"
	_, err = uc.Create(ctx, "u-1", badCUIT)
	assert.True(t, errors.Is(err, domain.ErrInvalidCUIT))

	_, err = uc.Create(ctx, "u-1", dto.CreatePaymentRequest{CustomerID: customerID, Method: entity.PaymentMethodEfectivo, Amount: dec("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, "u-1", dto.CreatePaymentRequest{CustomerID: "nope", Method: entity.PaymentMethodEfectivo, Amount: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestChequeStatus_RechazoRevierteElPago(t *testing.T) {
	store := newStore(t)
	payments := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)
	cheques := NewChequeUseCase(store, store.Repos().Cheques, nil)
	ctx := context.Background()

	pay, err := payments.Create(ctx, "u-1", chequePayment("8000"))
	require.NoError(t, err)

	dep, err := cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{Status: entity.ChequeStatusDeposited})
	require.NoError(t, err)
	assert.NotNil(t, dep.DepositedAt)

	rej, err := cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{
		Status: entity.ChequeStatusRejected, Reason: "sin fondos",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ChequeStatusRejected, rej.Status)
	assert.Equal(t, "sin fondos", rej.RejectionReason)

	p, err := payments.GetByID(ctx, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusReversed, p.Status)
	assert.True(t, balance(t, store).IsZero())

	items, _ := store.Repos().CurrentAccount.ListByCustomer(ctx, customerID)
	require.Len(t, items, 2)
	assert.Equal(t, entity.LedgerConceptChequeRechazado, items[1].Concept)
	assert.Contains(t, items[1].Description, "sin fondos")

	_, err = cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{Status: entity.ChequeStatusDeposited})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "rejected es terminal")
}

func TestChequeStatus_Endoso(t *testing.T) {
	store := newStore(t)
	payments := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)
	cheques := NewChequeUseCase(store, store.Repos().Cheques, nil)
	ctx := context.Background()

	pay, err := payments.Create(ctx, "u-1", chequePayment("500"))
	require.NoError(t, err)

	_, err = cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{Status: entity.ChequeStatusEndorsed})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	res, err := cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{
		Status: entity.ChequeStatusEndorsed, EndorsedTo: "Distribuidora Norte",
	})
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Norte", res.EndorsedTo)

	_, err = cheques.UpdateStatus(ctx, pay.ChequeID, dto.UpdateChequeStatusRequest{Status: entity.ChequeStatusRejected})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestChequeList_DueBeforeInclusivo(t *testing.T) {
	store := newStore(t)
	payments := NewPaymentUseCase(store, store.Repos().Payments, fixedRate(dec("1")), nil)
	cheques := NewChequeUseCase(store, store.Repos().Cheques, nil)
	ctx := context.Background()

	_, err := payments.Create(ctx, "u-1", chequePayment("500"))
	require.NoError(t, err)

	list, err := cheques.List(ctx, dto.ChequeListRequest{DueBefore: "2024-06-30"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	list, err = cheques.List(ctx, dto.ChequeListRequest{DueBefore: "2024-06-29"})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCurrentAccount_StatementAjusteYExport(t *testing.T) {
	store := newStore(t)
	exp := &fakeExporter{}
	uc := NewCurrentAccountUseCase(store, store.Repos().Customers, store.Repos().CurrentAccount, exp)
	ctx := context.Background()

	post(t, store, Entry{CustomerID: customerID, Concept: entity.LedgerConceptVenta, Debit: dec("700"), Date: time.Now()})
	item, err := uc.Adjust(ctx, customerID, dto.AdjustmentRequest{Type: entity.LedgerCredit, Amount: dec("200"), Description: "bonificación"})
	require.NoError(t, err)
	assert.Equal(t, entity.LedgerConceptAjuste, item.Concept)
	assert.True(t, dec("500").Equal(item.Balance))

	st, err := uc.Statement(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, st.Items, 2)
	assert.True(t, dec("500").Equal(st.Balance))
	assert.Equal(t, "Ferretería Sur", st.CustomerName)

	balances, err := uc.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, dec("500").Equal(balances[0].Balance))

	body, name, err := uc.Export(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), body)
	assert.Contains(t, name, customerID)
	require.NotNil(t, exp.got)
	assert.Len(t, exp.got.Items, 2)

	_, err = uc.Adjust(ctx, customerID, dto.AdjustmentRequest{Type: "otro", Amount: dec("1"), Description: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.Statement(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
