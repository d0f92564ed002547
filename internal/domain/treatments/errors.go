package treatments

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("treatment not found")
	ErrLawnNotFound = errors.New("lawn profile not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// StoreError envuelve fallos de persistencia no clasificados.
// El detalle va al log; al cliente solo le llega "internal error".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("treatments store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr deja pasar los errores de dominio y envuelve el resto.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrInvalidInput, ErrNotFound, ErrLawnNotFound, ErrForbidden, ErrConflict} {
		if errors.Is(err, known) {
			return err
		}
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
