package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrInvalidCUIT         = errors.New("CUIT/CUIL inválido")
	ErrAFIPRejected        = errors.New("comprobante rechazado por AFIP")
	ErrAFIPUnavailable     = errors.New("servicio AFIP no disponible")
)
