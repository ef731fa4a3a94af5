package fiscal

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

// QRBaseURL prefijo del código QR de comprobantes electrónicos (RG 4291).
const QRBaseURL = "https://www.afip.gob.ar/fe/qr/?p="

// QRData contenido del QR, versión 1.
type QRData struct {
	Ver        int         `json:"ver"`
	Fecha      string      `json:"fecha"`
	Cuit       int64       `json:"cuit"`
	PtoVta     int         `json:"ptoVta"`
	TipoCmp    int         `json:"tipoCmp"`
	NroCmp     int64       `json:"nroCmp"`
	Importe    json.Number `json:"importe"`
	Moneda     string      `json:"moneda"`
	Ctz        json.Number `json:"ctz"`
	TipoDocRec int         `json:"tipoDocRec,omitempty"`
	NroDocRec  int64       `json:"nroDocRec,omitempty"`
	TipoCodAut string      `json:"tipoCodAut"`
	CodAut     int64       `json:"codAut"`
}

// NewQRData arma el contenido del QR de una venta autorizada. Los importes van en pesos.
func NewQRData(sale *entity.Sale, customer *entity.Customer, issuerCUIT string) QRData {
	d := QRData{
		Ver:        1,
		Fecha:      sale.Date.Format(time.DateOnly),
		Cuit:       parseDigits(issuerCUIT),
		PtoVta:     sale.PointOfSale,
		TipoCmp:    sale.InvoiceType,
		NroCmp:     sale.VoucherNumber,
		Importe:    json.Number(sale.Total.StringFixed(2)),
		Moneda:     afip.CurrencyPesos,
		Ctz:        json.Number(decimal.NewFromInt(1).String()),
		TipoCodAut: "E",
		CodAut:     parseDigits(sale.CAE),
	}
	if customer != nil && customer.DocType != afip.DocTypeSinIdentificar {
		d.TipoDocRec = customer.DocType
		d.NroDocRec = parseDigits(customer.DocNumber)
	}
	return d
}

// BuildQRURL devuelve la URL del QR: prefijo + JSON codificado en base64.
func BuildQRURL(d QRData) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return QRBaseURL + base64.StdEncoding.EncodeToString(raw), nil
}

func parseDigits(s string) int64 {
	n, err := strconv.ParseInt(afip.NormalizeCUIT(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
