package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente (cuenta corriente y facturación AFIP).
type Customer struct {
	ID              string
	Name            string // Razón social o nombre y apellido
	DocType         int    // 80 CUIT, 86 CUIL, 96 DNI, 99 sin identificar
	DocNumber       string // solo dígitos
	IVACondition    string // responsable_inscripto, monotributo, exento, consumidor_final
	Email           string
	Phone           string
	Address         string
	CreditLimit     decimal.Decimal // 0 = sin crédito en cuenta corriente
	PaymentTermDays int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
