// internal/core/domain/incoming.go
package domain

import (
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// IncomingRecord es un registro candidato producido por una fuente de
// scraping, todavía sin identidad resuelta. Como mínimo lleva un nombre;
// idealmente una URL autoritativa y atributos pre-poblados.
type IncomingRecord struct {
	// Name nombre crudo tal y como lo entrega la fuente
	Name string

	// URL referencia externa de la fuente (vacía en fuentes name-only)
	URL string

	// Attributes atributos ya extraídos por la fuente
	Attributes HeroAttributes

	// Source nombre de la fuente que produjo el registro
	Source string

	// Refresh indica un pase de refresco con precedencia reducida:
	// solo puede reemplazar valores centinela, nunca específicos
	Refresh bool
}

// DisplayName retorna el nombre limpio del candidato.
func (r IncomingRecord) DisplayName() string {
	return normalize.DisplayName(r.Name)
}

// SlugGuess retorna el slug derivado del nombre del candidato.
// Un resultado vacío significa que no puede derivarse identidad.
func (r IncomingRecord) SlugGuess() string {
	return normalize.SlugFromDisplay(r.Name)
}

// HasURL indica si el registro lleva referencia externa.
func (r IncomingRecord) HasURL() bool {
	return r.URL != ""
}
