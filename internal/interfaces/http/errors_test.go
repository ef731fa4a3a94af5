package http_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	apphttp "github.com/jhoicas/gestion-comercial-api/internal/interfaces/http"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrInvalidCUIT, fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrCreditLimitExceeded, fiber.StatusConflict, "CREDIT_LIMIT"},
		{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{domain.ErrAFIPRejected, fiber.StatusUnprocessableEntity, "AFIP_REJECTED"},
		{domain.ErrAFIPUnavailable, fiber.StatusBadGateway, "AFIP_UNAVAILABLE"},
		{rates.ErrProviderUnavailable, fiber.StatusBadGateway, "RATES_UNAVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.code+"/"+tc.err.Error(), func(t *testing.T) {
			status, code := apphttp.StatusFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestStatusFor_ErrorEnvuelto(t *testing.T) {
	err := fmt.Errorf("venta: %w", fmt.Errorf("producto p-1: %w", domain.ErrInsufficientStock))
	status, code := apphttp.StatusFor(err)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", code)
}

func TestStatusFor_Desconocido(t *testing.T) {
	status, code := apphttp.StatusFor(errors.New("conexión perdida"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", code)
}
