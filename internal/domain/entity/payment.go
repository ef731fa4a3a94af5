package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentMethodEfectivo      = "efectivo"
	PaymentMethodTransferencia = "transferencia"
	PaymentMethodCheque        = "cheque"
	PaymentMethodTarjeta       = "tarjeta"
)

// Estados de un pago.
const (
	PaymentStatusApplied  = "applied"
	PaymentStatusReversed = "reversed" // revertido por cheque rechazado
)

// Payment representa un cobro a un cliente, imputado a su cuenta corriente.
type Payment struct {
	ID           string
	CustomerID   string
	UserID       string
	Date         time.Time
	Method       string
	Currency     string
	Amount       decimal.Decimal // en la moneda del pago
	ExchangeRate decimal.Decimal // 1 para ARS
	AmountARS    decimal.Decimal // importe imputado a la cuenta corriente
	ChequeID     string
	Reference    string
	Notes        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidPaymentMethod indica si el medio de pago es conocido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodEfectivo, PaymentMethodTransferencia, PaymentMethodCheque, PaymentMethodTarjeta:
		return true
	}
	return false
}
