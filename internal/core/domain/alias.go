// internal/core/domain/alias.go
package domain

// AliasGroup agrupa los nombres alternativos conocidos de una identidad
// canónica, tal y como se persisten en la tabla de aliases. Un alias
// apunta a (no posee) un HeroRecord; varios grupos no deben compartir
// la misma clave normalizada de alias.
type AliasGroup struct {
	// Aliases formas textuales alternativas introducidas a mano o
	// confirmadas durante la reconciliación
	Aliases []string `json:"aliases"`

	// CanonicalName nombre canónico legible de la identidad
	CanonicalName string `json:"canonical_name"`

	// CanonicalSlug slug de la identidad a la que resuelven los aliases
	CanonicalSlug string `json:"canonical_slug"`
}
