package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cuenta corriente.
const (
	LedgerDebit  = "debit"  // aumenta la deuda del cliente
	LedgerCredit = "credit" // disminuye la deuda del cliente
)

// Conceptos de movimiento.
const (
	LedgerConceptVenta           = "venta"
	LedgerConceptPago            = "pago"
	LedgerConceptChequeRechazado = "cheque_rechazado"
	LedgerConceptAnulacionVenta  = "anulacion_venta"
	LedgerConceptAjuste          = "ajuste"
)

// CurrentAccountItem es un renglón del mayor de cuenta corriente de un cliente.
// Balance = saldo anterior + Debit - Credit. Saldo positivo: el cliente adeuda.
type CurrentAccountItem struct {
	ID          string
	CustomerID  string
	Date        time.Time
	Type        string
	Concept     string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
	SaleID      string
	PaymentID   string
	ChequeID    string
	CreatedAt   time.Time
}

// CustomerBalance saldo actual de un cliente.
type CustomerBalance struct {
	CustomerID   string
	CustomerName string
	Balance      decimal.Decimal
	LastMovement time.Time
}
