// internal/core/ports/store.go
package ports

import (
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// SnapshotStore es el port de persistencia del data lake local.
// El contrato es load-all / write-all: el snapshot completo se carga en
// memoria al inicio del run, se muta, y se escribe de forma atómica al
// final. Un fallo de I/O aquí es fatal y aborta el run sin escribir nada.
type SnapshotStore interface {
	// LoadRoster carga el snapshot completo de identidades canónicas.
	// Un archivo inexistente retorna un roster vacío, no un error.
	LoadRoster() ([]*domain.HeroRecord, error)

	// SaveRoster escribe el snapshot completo de forma atómica
	SaveRoster(roster []*domain.HeroRecord) error

	// LoadAliases carga la tabla de aliases persistida
	LoadAliases() ([]domain.AliasGroup, error)

	// SaveAliases escribe la tabla de aliases de forma atómica
	SaveAliases(groups []domain.AliasGroup) error

	// LoadUnresolved carga la lista de trabajo de matches fallidos
	LoadUnresolved() ([]domain.UnresolvedEntry, error)

	// AppendUnresolved añade entradas nuevas a la lista de trabajo sin
	// tocar las existentes (append-only, deduplicado por Key)
	AppendUnresolved(entries []domain.UnresolvedEntry) error
}

// Presenter es el port de presentación del informe de ejecución.
// Desacopla el pipeline del mecanismo concreto (terminal, noop en tests).
type Presenter interface {
	// RunStarted anuncia el comienzo de una ejecución
	RunStarted(sources []string)

	// SourceFinished anuncia el final de una fuente con su recuento
	SourceFinished(name string, records int, err error)

	// Report muestra el informe final: contadores y muestra de no resueltos
	Report(result *domain.RunResult, unresolvedSample []domain.UnresolvedEntry)
}
