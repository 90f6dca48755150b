// Package errors extiende el paquete estándar con wrapping contextual y
// los sentinels de infraestructura compartidos por el scraper y el
// pipeline de reconciliación.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels de fallos de infraestructura. Los fallos del dominio de
// reconciliación viven en core/domain; estos cubren red y persistencia.
var (
	// ErrTimeout la operación excedió su límite de tiempo
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit se excedió el límite de peticiones de una fuente
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound el recurso remoto no existe (404)
	ErrNotFound = errors.New("resource not found")

	// ErrConnectionFailed no se pudo establecer conexión con la fuente
	ErrConnectionFailed = errors.New("connection failed")

	// ErrServiceUnavailable la fuente está temporalmente caída (5xx)
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse la respuesta no se pudo parsear
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError añade contexto a un error preservando la cadena.
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap añade un mensaje de contexto a err. Si err es nil retorna nil,
// por lo que es seguro envolver el retorno directo de una operación.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf añade un mensaje de contexto formateado a err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is delega en errors.Is de la librería estándar.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delega en errors.As de la librería estándar.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New delega en errors.New de la librería estándar.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf delega en fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join delega en errors.Join; los nil se descartan.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsTimeout indica si el error es de timeout.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsNotFound indica si el error es un 404 de la fuente.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsRetryable indica si el error justifica un reintento: timeouts,
// fallos de conexión y caídas temporales sí; un 404 o una respuesta
// malformada no van a mejorar reintentando.
func IsRetryable(err error) bool {
	return Is(err, ErrTimeout) || Is(err, ErrConnectionFailed) || Is(err, ErrServiceUnavailable)
}
