package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// PDFUseCase genera la representación impresa de una factura electrónica.
// Solo se permite para ventas facturadas (con CAE).
type PDFUseCase struct {
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	generator InvoicePDFGenerator
	issuer    IssuerConfig
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	generator InvoicePDFGenerator,
	issuer IssuerConfig,
) *PDFUseCase {
	return &PDFUseCase{
		sales:     sales,
		customers: customers,
		generator: generator,
		issuer:    issuer,
	}
}

// DownloadInvoicePDF recupera la venta y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
//   - domain.ErrConflict        si la venta no está facturada.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusInvoiced || sale.CAE == "" {
		return nil, "", fmt.Errorf("%w: la venta está en estado %s, solo se imprimen ventas facturadas",
			domain.ErrConflict, sale.Status)
	}
	customer, err := uc.customers.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("%w: cliente %s", domain.ErrNotFound, sale.CustomerID)
	}
	return uc.Render(ctx, sale, customer)
}

// Render genera el PDF de una venta ya cargada y devuelve bytes y nombre de archivo.
func (uc *PDFUseCase) Render(ctx context.Context, sale *entity.Sale, customer *entity.Customer) ([]byte, string, error) {
	qr, err := fiscal.BuildQRURL(fiscal.NewQRData(sale, customer, uc.issuer.CUIT))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: armar QR: %w", err)
	}
	body, err := uc.generator.GenerateInvoicePDF(ctx, InvoicePDFData{
		Sale:     sale,
		Customer: customer,
		Issuer:   uc.issuer,
		QRURL:    qr,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("factura_%s_%s.pdf",
		strings.ToLower(fiscal.VoucherLetter(sale.InvoiceType)),
		fiscal.FormatVoucherNumber(sale.PointOfSale, sale.VoucherNumber))
	return body, filename, nil
}
