package pets

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del dominio. Los handlers los mapean a status codes
// con errors.Is, por eso todo wrap se hace con %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrConstraint   = errors.New("constraint violation")
	ErrInvalidInput = errors.New("invalid input")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// constraintErr envuelve un rechazo del storage (unicidad, integridad,
// fallas inesperadas) como ErrConstraint. ErrNotFound pasa intacto.
func constraintErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrConstraint, err)
}
