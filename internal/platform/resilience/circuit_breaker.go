// internal/platform/resilience/circuit_breaker.go
package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed   State = iota // operación normal
	StateOpen                  // fallando, rechaza peticiones
	StateHalfOpen              // probando si la fuente se recuperó
)

// CircuitBreaker corta el tráfico hacia una fuente de scraping que está
// caída para no castigarla durante la ventana de recuperación.
type CircuitBreaker struct {
	mu              sync.RWMutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	lastSuccessTime time.Time

	failureThreshold int           // fallos consecutivos para abrir
	timeout          time.Duration // espera antes de half-open
	halfOpenMax      int           // peticiones de prueba en half-open
}

// NewCircuitBreaker crea un circuit breaker con los umbrales dados.
func NewCircuitBreaker(failureThreshold int, timeout time.Duration, halfOpenMax int) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if halfOpenMax <= 0 {
		halfOpenMax = 3
	}

	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
		halfOpenMax:      halfOpenMax,
	}
}

// Allow verifica si una petición puede pasar.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.state = StateHalfOpen
			cb.successCount = 0
			cb.failureCount = 0
			return true
		}
		return false

	case StateHalfOpen:
		return cb.successCount+cb.failureCount < cb.halfOpenMax

	default:
		return false
	}
}

// RecordSuccess registra una operación exitosa.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastSuccessTime = time.Now()

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0

	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMax {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// RecordFailure registra una operación fallida.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()
	cb.failureCount++

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.state = StateOpen
		}

	case StateHalfOpen:
		// Un fallo en half-open reabre el circuito inmediatamente.
		cb.state = StateOpen
		cb.successCount = 0
		cb.failureCount = 0
	}
}

// State retorna el estado actual.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset devuelve el circuit breaker al estado cerrado.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
}

// Stats retorna una instantánea de los contadores.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return CircuitBreakerStats{
		State:           cb.state,
		FailureCount:    cb.failureCount,
		SuccessCount:    cb.successCount,
		LastFailureTime: cb.lastFailureTime,
		LastSuccessTime: cb.lastSuccessTime,
	}
}

// CircuitBreakerStats contiene estadísticas del circuit breaker.
type CircuitBreakerStats struct {
	State           State
	FailureCount    int
	SuccessCount    int
	LastFailureTime time.Time
	LastSuccessTime time.Time
}

// String retorna una representación legible del estado.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
