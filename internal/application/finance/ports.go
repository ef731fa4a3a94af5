package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
)

// RateSource cotización vendedor vigente para convertir cobros en moneda extranjera.
type RateSource interface {
	LatestSellRate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// StatementExporter genera el archivo del estado de cuenta de un cliente.
type StatementExporter interface {
	ExportStatement(ctx context.Context, statement *dto.CurrentAccountResponse) ([]byte, error)
}
