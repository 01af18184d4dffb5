package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Todos son violaciones de reglas de negocio,
// no fallos transitorios: ninguno se reintenta.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrQuoteLocked        = errors.New("cotización bloqueada para edición")
	ErrEmptyQuote         = errors.New("la cotización no tiene líneas")
	ErrLegalRetention     = errors.New("documento sujeto a conservación legal")
	ErrForeignKeyConflict = errors.New("el registro tiene elementos asociados")
)

// TransitionError describe un par (origen, destino) rechazado por la tabla de transiciones.
// errors.Is(err, ErrInvalidTransition) es siempre cierto; si el origen está bloqueado
// (ACCEPTED/FINALIZED) también lo es para ErrQuoteLocked.
type TransitionError struct {
	From   string
	To     string
	Locked bool
}

func (e *TransitionError) Error() string {
	if e.Locked {
		return fmt.Sprintf("%s: %s -> %s (estado bloqueado)", ErrInvalidTransition, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

// Is permite errors.Is contra los centinelas.
func (e *TransitionError) Is(target error) bool {
	if target == ErrInvalidTransition {
		return true
	}
	return e.Locked && target == ErrQuoteLocked
}
