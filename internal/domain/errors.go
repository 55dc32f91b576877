package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Negaciones de reglas de negocio. El núcleo nunca las devuelve: las usan los
	// casos de uso a partir de las consultas de deuda y de estado de lote.
	ErrMaterialHasDebt      = errors.New("la materia prima tiene deuda técnica pendiente")
	ErrLotTouched           = errors.New("el lote ya fue consumido: solo se permiten cambios no financieros")
	ErrProductHasActiveDebt = errors.New("el producto tiene deuda activa: composición bloqueada")
)
