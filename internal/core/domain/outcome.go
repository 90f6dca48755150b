// internal/core/domain/outcome.go
package domain

// Outcome clasifica el resultado del upsert de un registro entrante.
type Outcome string

const (
	// OutcomeCreated se creó una identidad canónica nueva
	OutcomeCreated Outcome = "created"

	// OutcomeUpdatedByURL merge sobre una identidad existente localizada
	// por igualdad de URL (señal autoritativa)
	OutcomeUpdatedByURL Outcome = "updated_by_url"

	// OutcomeUpdatedBySlug merge sobre una identidad existente localizada
	// por igualdad de slug
	OutcomeUpdatedBySlug Outcome = "updated_by_slug"

	// OutcomeRejected registro descartado: sin URL autoritativa válida o
	// sin clave de identidad derivable
	OutcomeRejected Outcome = "rejected"
)

// IsValid verifica que el outcome sea uno de los conocidos.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCreated, OutcomeUpdatedByURL, OutcomeUpdatedBySlug, OutcomeRejected:
		return true
	default:
		return false
	}
}

// String retorna la representación string del outcome.
func (o Outcome) String() string {
	return string(o)
}

// RunStats acumula los contadores de una ejecución de reconciliación.
// Son el efecto observable principal para el operador.
type RunStats struct {
	Created       int `json:"created"`
	UpdatedByURL  int `json:"updated_by_url"`
	UpdatedBySlug int `json:"updated_by_slug"`
	Rejected      int `json:"rejected"`
	Unresolved    int `json:"unresolved"`
	AliasesAdded  int `json:"aliases_added"`
	Skipped       int `json:"skipped"`
}

// Record incrementa el contador correspondiente a un outcome.
func (s *RunStats) Record(o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdatedByURL:
		s.UpdatedByURL++
	case OutcomeUpdatedBySlug:
		s.UpdatedBySlug++
	case OutcomeRejected:
		s.Rejected++
	}
}

// Total retorna el número de registros procesados con outcome.
func (s RunStats) Total() int {
	return s.Created + s.UpdatedByURL + s.UpdatedBySlug + s.Rejected
}
