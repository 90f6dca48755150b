// internal/platform/resilience/retryable_source.go
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
)

// RetryableSource envuelve un Source con retry exponencial y circuit
// breaker. Los errores permanentes (404, respuesta malformada) no se
// reintentan: reintentar un parser roto solo retrasa el run.
type RetryableSource struct {
	source            ports.Source
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	circuitBreaker    *CircuitBreaker
	logger            logx.Logger
}

// NewRetryableSource crea un RetryableSource.
func NewRetryableSource(
	source ports.Source,
	maxRetries int,
	backoffBase time.Duration,
	backoffMultiplier float64,
	cb *CircuitBreaker,
	logger logx.Logger,
) *RetryableSource {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoffBase <= 0 {
		backoffBase = 1 * time.Second
	}
	if backoffMultiplier < 1.0 {
		backoffMultiplier = 2.0
	}

	return &RetryableSource{
		source:            source,
		maxRetries:        maxRetries,
		backoffBase:       backoffBase,
		backoffMultiplier: backoffMultiplier,
		circuitBreaker:    cb,
		logger:            logger.With("component", "retryable-source", "source", source.Name()),
	}
}

// Name retorna el nombre del source subyacente.
func (r *RetryableSource) Name() string {
	return r.source.Name()
}

// Role retorna el rol del source subyacente.
func (r *RetryableSource) Role() domain.SourceRole {
	return r.source.Role()
}

// Type retorna el tipo del source subyacente.
func (r *RetryableSource) Type() domain.SourceType {
	return r.source.Type()
}

// Fetch ejecuta el source con reintentos y circuit breaker.
func (r *RetryableSource) Fetch(ctx context.Context) ([]domain.IncomingRecord, error) {
	if r.circuitBreaker != nil && !r.circuitBreaker.Allow() {
		r.logger.Warn("circuit breaker open, skipping source")
		return nil, fmt.Errorf("circuit breaker open for source %s: %w", r.source.Name(), ErrCircuitOpen)
	}

	var lastErr error
	attempt := 0

	for attempt <= r.maxRetries {
		if attempt > 0 {
			r.logger.Info("retrying source", "attempt", attempt, "max_retries", r.maxRetries)
		}

		records, err := r.source.Fetch(ctx)
		if err == nil {
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordSuccess()
			}
			if attempt > 0 {
				r.logger.Info("source succeeded after retry", "attempts", attempt+1)
			}
			return records, nil
		}

		lastErr = err
		r.logger.Warn("source failed", "attempt", attempt+1, "error", err.Error())

		// Errores permanentes: abortar sin consumir más intentos.
		if !errors.IsRetryable(err) && ctx.Err() == nil {
			break
		}

		if attempt >= r.maxRetries {
			break
		}

		if ctx.Err() != nil {
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordFailure()
			}
			return nil, fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}

		backoff := r.calculateBackoff(attempt)
		r.logger.Debug("backing off before retry", "delay_ms", backoff.Milliseconds())

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordFailure()
			}
			return nil, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
		}

		attempt++
	}

	if r.circuitBreaker != nil {
		r.circuitBreaker.RecordFailure()
	}

	r.logger.Warn("source failed after all retries",
		"attempts", attempt+1,
		"last_error", lastErr.Error(),
	)

	return nil, fmt.Errorf("source %s failed after %d attempts: %w", r.source.Name(), attempt+1, lastErr)
}

// Close cierra el source subyacente.
func (r *RetryableSource) Close() error {
	return r.source.Close()
}

// calculateBackoff calcula el delay exponencial, con techo de 1 minuto.
func (r *RetryableSource) calculateBackoff(attempt int) time.Duration {
	multiplier := math.Pow(r.backoffMultiplier, float64(attempt))
	backoff := time.Duration(float64(r.backoffBase) * multiplier)

	const maxBackoff = 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}

// GetCircuitBreaker retorna el circuit breaker (para tests y monitoreo).
func (r *RetryableSource) GetCircuitBreaker() *CircuitBreaker {
	return r.circuitBreaker
}
