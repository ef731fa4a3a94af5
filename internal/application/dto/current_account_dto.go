package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentRequest body de POST /api/current-accounts/:customerId/adjustments.
type AdjustmentRequest struct {
	Type        string          `json:"type" validate:"required,oneof=debit credit"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"required,max=300"`
}

// CurrentAccountItemResponse movimiento de cuenta corriente.
type CurrentAccountItemResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Concept     string          `json:"concept"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	SaleID      string          `json:"sale_id,omitempty"`
	PaymentID   string          `json:"payment_id,omitempty"`
	ChequeID    string          `json:"cheque_id,omitempty"`
}

// CurrentAccountResponse estado de cuenta de un cliente.
type CurrentAccountResponse struct {
	CustomerID   string                       `json:"customer_id"`
	CustomerName string                       `json:"customer_name"`
	CreditLimit  decimal.Decimal              `json:"credit_limit"`
	Balance      decimal.Decimal              `json:"balance"`
	Items        []CurrentAccountItemResponse `json:"items"`
}

// CustomerBalanceResponse saldo de un cliente en GET /api/current-accounts/balances.
type CustomerBalanceResponse struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Balance      decimal.Decimal `json:"balance"`
	LastMovement time.Time       `json:"last_movement"`
}
