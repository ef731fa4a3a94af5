// Package afipws implementa el puerto billing.AFIPService: un servicio simulado para desarrollo
// y el cliente HTTP del servicio externo que habla WSAA/WSFEv1 con AFIP.
package afipws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
)

// Modos de acceso a AFIP (AFIP_MODE).
const (
	ModeDev     = "dev"
	ModeGateway = "gateway"
)

var _ billing.AFIPService = (*SimulatedService)(nil)

// SimulatedService numeración en memoria y CAE sintético. No envía nada a AFIP.
type SimulatedService struct {
	mu   sync.Mutex
	last map[counterKey]int64
	now  func() time.Time
}

type counterKey struct {
	pointOfSale int
	voucherType int
}

// NewSimulatedService crea el servicio con todos los contadores en cero.
func NewSimulatedService() *SimulatedService {
	return &SimulatedService{last: make(map[counterKey]int64), now: time.Now}
}

func (s *SimulatedService) LastAuthorized(_ context.Context, pointOfSale, voucherType int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[counterKey{pointOfSale, voucherType}], nil
}

// Authorize aplica los controles de correlatividad y totales que hace WSFEv1.
func (s *SimulatedService) Authorize(_ context.Context, req billing.VoucherRequest) (*billing.VoucherResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := counterKey{req.PointOfSale, req.VoucherType}
	if want := s.last[key] + 1; req.Number != want {
		return nil, fmt.Errorf("%w: 10016 el número de comprobante informado (%d) no es el próximo a autorizar (%d)",
			domain.ErrAFIPRejected, req.Number, want)
	}
	sum := req.NetTaxed.Add(req.NetExempt).Add(req.NetNonTaxed).Add(req.IVATotal)
	if !sum.Round(2).Equal(req.Total.Round(2)) {
		return nil, fmt.Errorf("%w: 10048 el importe total (%s) no coincide con la suma de componentes (%s)",
			domain.ErrAFIPRejected, req.Total.StringFixed(2), sum.StringFixed(2))
	}
	if req.Total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: 10015 el importe total debe ser mayor a cero", domain.ErrAFIPRejected)
	}

	s.last[key] = req.Number
	now := s.now()
	return &billing.VoucherResult{
		Number:     req.Number,
		CAE:        fmt.Sprintf("%02d%04d%08d", req.VoucherType%100, req.PointOfSale%10000, req.Number%100000000),
		CAEDueDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 10),
	}, nil
}
