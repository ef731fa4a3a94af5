package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un cheque recibido.
const (
	ChequeStatusPending   = "pending"   // En cartera
	ChequeStatusDeposited = "deposited" // Depositado en banco
	ChequeStatusEndorsed  = "endorsed"  // Endosado a un tercero
	ChequeStatusRejected  = "rejected"  // Rechazado por el banco
)

// Transiciones permitidas. endorsed y rejected son terminales.
var chequeTransitions = map[string][]string{
	ChequeStatusPending:   {ChequeStatusDeposited, ChequeStatusEndorsed, ChequeStatusRejected},
	ChequeStatusDeposited: {ChequeStatusRejected},
}

// Cheque representa un cheque de terceros recibido como medio de pago.
type Cheque struct {
	ID              string
	Number          string
	Bank            string
	IssuerName      string
	IssuerCUIT      string
	Amount          decimal.Decimal
	IssueDate       time.Time
	DueDate         time.Time
	Status          string
	CustomerID      string
	PaymentID       string
	EndorsedTo      string
	DepositedAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidChequeStatus indica si el estado es conocido.
func IsValidChequeStatus(s string) bool {
	switch s {
	case ChequeStatusPending, ChequeStatusDeposited, ChequeStatusEndorsed, ChequeStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo indica si el cheque puede pasar al estado next.
func (c *Cheque) CanTransitionTo(next string) bool {
	for _, s := range chequeTransitions[c.Status] {
		if s == next {
			return true
		}
	}
	return false
}
