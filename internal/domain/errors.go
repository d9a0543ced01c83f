package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del ciclo de vida del e-Invoice.
var (
	ErrInvalidTransition        = errors.New("transición de estado no permitida")
	ErrActionNotAllowed         = errors.New("acción no permitida para el estado actual")
	ErrActionInFlight           = errors.New("la acción ya está en curso")
	ErrInvalidCancelReason      = errors.New("motivo de cancelación inválido")
	ErrCancellationWindowClosed = errors.New("la ventana de cancelación de 72 horas ha expirado")
	ErrEInvoiceExists           = errors.New("la factura ya tiene un e-Invoice activo")
	ErrUpstream                 = errors.New("error de comunicación con MyInvois")
)
