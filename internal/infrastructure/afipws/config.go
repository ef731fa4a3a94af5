package afipws

import (
	"fmt"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
)

// NewFromConfig elige el servicio según AFIP_MODE.
func NewFromConfig(cfg config.AFIPConfig) (billing.AFIPService, error) {
	switch cfg.Mode {
	case ModeDev, "":
		return NewSimulatedService(), nil
	case ModeGateway:
		if cfg.GatewayURL == "" {
			return nil, fmt.Errorf("afip: modo gateway sin URL")
		}
		return NewGatewayClient(cfg.GatewayURL, cfg.GatewayToken, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("afip: modo desconocido %q", cfg.Mode)
	}
}

// Issuer datos del emisor a partir de la configuración.
func Issuer(cfg config.AFIPConfig) billing.IssuerConfig {
	return billing.IssuerConfig{
		CUIT:          cfg.CUIT,
		PointOfSale:   cfg.PointOfSale,
		IVACondition:  cfg.IVACondition,
		BusinessName:  cfg.BusinessName,
		Address:       cfg.Address,
		GrossIncome:   cfg.GrossIncome,
		ActivityStart: cfg.ActivityStart,
	}
}
