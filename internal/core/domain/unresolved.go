// internal/core/domain/unresolved.go
package domain

import "time"

// UnresolvedEntry registra un intento de match entre fuentes que no pudo
// resolverse con confianza. Es una lista de trabajo para el operador:
// nunca se resuelve ni se borra automáticamente, solo la consume un humano
// o una re-ejecución tras actualizar la tabla de aliases.
type UnresolvedEntry struct {
	// SourceName nombre del candidato tal y como llegó de la fuente
	SourceName string `json:"source_name"`

	// SourceSlugGuess slug derivado del nombre del candidato
	SourceSlugGuess string `json:"source_slug_guess"`

	// Reason por qué no se pudo resolver
	Reason string `json:"reason"`

	// FirstSeen primera vez que se registró este fallo
	FirstSeen time.Time `json:"first_seen"`
}

// Key retorna la clave de deduplicación dentro de la lista de trabajo.
// El mismo nombre con el mismo motivo no se registra dos veces.
func (u UnresolvedEntry) Key() string {
	return u.SourceName + "|" + u.Reason
}
