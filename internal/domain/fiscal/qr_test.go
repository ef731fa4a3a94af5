package fiscal_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func TestBuildQRURL(t *testing.T) {
	sale := &entity.Sale{
		Date:          time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		InvoiceType:   afip.VoucherFacturaA,
		PointOfSale:   2,
		VoucherNumber: 154,
		Total:         dec("1210.5"),
		CAE:           "76123456789012",
	}
	customer := &entity.Customer{DocType: afip.DocTypeCUIT, DocNumber: "20123456786"}

	url, err := fiscal.BuildQRURL(fiscal.NewQRData(sale, customer, "30-71234567-1"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, fiscal.QRBaseURL))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, fiscal.QRBaseURL))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.EqualValues(t, 1, got["ver"])
	assert.Equal(t, "2026-03-15", got["fecha"])
	assert.EqualValues(t, 30712345671, got["cuit"])
	assert.EqualValues(t, 2, got["ptoVta"])
	assert.EqualValues(t, 1, got["tipoCmp"])
	assert.EqualValues(t, 154, got["nroCmp"])
	assert.EqualValues(t, 1210.5, got["importe"])
	assert.Equal(t, "PES", got["moneda"])
	assert.EqualValues(t, 80, got["tipoDocRec"])
	assert.EqualValues(t, 20123456786, got["nroDocRec"])
	assert.Equal(t, "E", got["tipoCodAut"])
	assert.EqualValues(t, 76123456789012, got["codAut"])
}

func TestBuildQRURL_ConsumidorFinalSinDocumento(t *testing.T) {
	sale := &entity.Sale{Date: time.Now(), InvoiceType: afip.VoucherFacturaB, Total: dec("100"), CAE: "1"}
	d := fiscal.NewQRData(sale, &entity.Customer{DocType: afip.DocTypeSinIdentificar}, "20123456786")
	assert.Zero(t, d.TipoDocRec)
	assert.Zero(t, d.NroDocRec)
}
