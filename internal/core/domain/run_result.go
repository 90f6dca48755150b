// internal/core/domain/run_result.go
package domain

import (
	"fmt"
	"time"
)

// RunResult representa el resultado completo de una ejecución del
// pipeline de reconciliación: registros entrantes por fuente, contadores
// de outcomes y los problemas no fatales acumulados por el camino.
type RunResult struct {
	// ID identificador único de la ejecución
	ID string

	// Incoming registros candidatos recogidos de las fuentes
	Incoming []IncomingRecord

	// Stats contadores de la reconciliación
	Stats RunStats

	// NewUnresolved entradas añadidas a la lista de trabajo en este run
	NewUnresolved []UnresolvedEntry

	// Metadata información sobre la ejecución
	Metadata RunMetadata

	// Warnings advertencias no críticas
	Warnings []Warning

	// Errors errores por fuente
	Errors []Error
}

// RunMetadata contiene información sobre la ejecución.
type RunMetadata struct {
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Duration    time.Duration     `json:"duration"`
	SourcesUsed []string          `json:"sources_used"`
	Version     string            `json:"version"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Warning representa una advertencia no crítica durante la ejecución.
type Warning struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Error representa un error ocurrido durante la ejecución.
type Error struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Fatal     bool      `json:"fatal"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRunResult crea un resultado de ejecución vacío.
func NewRunResult() *RunResult {
	return &RunResult{
		ID:       fmt.Sprintf("run-%d", time.Now().UnixNano()),
		Incoming: []IncomingRecord{},
		Metadata: RunMetadata{
			StartTime:   time.Now(),
			Environment: make(map[string]string),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// AddIncoming añade registros candidatos al resultado.
func (r *RunResult) AddIncoming(records ...IncomingRecord) {
	r.Incoming = append(r.Incoming, records...)
}

// AddWarning añade una advertencia.
func (r *RunResult) AddWarning(source, message string) {
	r.Warnings = append(r.Warnings, Warning{
		Source:    source,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// AddError añade un error.
func (r *RunResult) AddError(source, message string, fatal bool) {
	r.Errors = append(r.Errors, Error{
		Source:    source,
		Message:   message,
		Fatal:     fatal,
		Timestamp: time.Now(),
	})
}

// Finalize marca la ejecución como completada.
func (r *RunResult) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// HasErrors indica si hubo errores durante la ejecución.
func (r *RunResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasFatalErrors indica si hubo errores fatales.
func (r *RunResult) HasFatalErrors() bool {
	for _, err := range r.Errors {
		if err.Fatal {
			return true
		}
	}
	return false
}

// Summary retorna un resumen legible del resultado.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"RunResult{incoming=%d, created=%d, updated=%d, rejected=%d, unresolved=%d, duration=%s}",
		len(r.Incoming),
		r.Stats.Created,
		r.Stats.UpdatedByURL+r.Stats.UpdatedBySlug,
		r.Stats.Rejected,
		r.Stats.Unresolved,
		r.Metadata.Duration,
	)
}
