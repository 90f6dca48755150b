// internal/core/usecases/alias_registry.go
package usecases

import (
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// AliasRegistry resuelve nombres alternativos a slugs canónicos.
// Se construye una vez por ejecución a partir de la tabla de aliases
// persistida y se pasa explícitamente a quien lo necesite: sin estado
// global, cada test puede construir su propio registry aislado.
//
// El registry crece de forma append-only: los aliases nuevos descubiertos
// durante la reconciliación se añaden y se vuelcan al final del run, pero
// nunca se borra ni se sobreescribe una entrada existente.
type AliasRegistry struct {
	byKey    map[string]string // clave normalizada del alias -> slug canónico
	groups   []domain.AliasGroup
	groupIdx map[string]int // slug canónico -> índice en groups
	added    int
	logger   logx.Logger
}

// NewAliasRegistry construye el registry desde la tabla persistida.
// Entradas cuya clave normalizada ya esté registrada se ignoran
// (la primera registración gana).
func NewAliasRegistry(groups []domain.AliasGroup, logger logx.Logger) *AliasRegistry {
	r := &AliasRegistry{
		byKey:    make(map[string]string),
		groups:   make([]domain.AliasGroup, 0, len(groups)),
		groupIdx: make(map[string]int),
		logger:   logger.With("component", "alias-registry"),
	}

	for _, g := range groups {
		for _, alias := range g.Aliases {
			r.register(alias, g.CanonicalName, g.CanonicalSlug, false)
		}
	}
	r.added = 0 // lo cargado desde disco no cuenta como añadido

	return r
}

// Lookup normaliza el texto y retorna el slug canónico registrado.
func (r *AliasRegistry) Lookup(freeText string) (string, bool) {
	key := normalize.SearchKey(freeText)
	if normalize.IsEmptyKey(key) {
		return "", false
	}
	slug, ok := r.byKey[key]
	return slug, ok
}

// Register añade un alias nuevo. Idempotente: si la clave normalizada ya
// existe nunca se sobreescribe, evitando que una fuente ruidosa posterior
// secuestre un alias establecido. Retorna true solo si se añadió.
func (r *AliasRegistry) Register(alias, canonicalName, slug string) bool {
	return r.register(alias, canonicalName, slug, true)
}

func (r *AliasRegistry) register(alias, canonicalName, slug string, logged bool) bool {
	key := normalize.SearchKey(alias)
	if normalize.IsEmptyKey(key) || slug == "" {
		return false
	}

	if existing, taken := r.byKey[key]; taken {
		if logged && existing != slug {
			r.logger.Warn("alias key already registered, first registration wins",
				"alias", alias,
				"existing_slug", existing,
				"rejected_slug", slug,
			)
		}
		return false
	}

	r.byKey[key] = slug

	if idx, ok := r.groupIdx[slug]; ok {
		r.groups[idx].Aliases = append(r.groups[idx].Aliases, alias)
	} else {
		r.groupIdx[slug] = len(r.groups)
		r.groups = append(r.groups, domain.AliasGroup{
			Aliases:       []string{alias},
			CanonicalName: canonicalName,
			CanonicalSlug: slug,
		})
	}

	r.added++
	return true
}

// TermsBySlug retorna el índice inverso: para cada slug canónico, las
// claves normalizadas de todos sus aliases. Se usa para comprobar si un
// nombre candidato ya es una forma conocida de una identidad.
func (r *AliasRegistry) TermsBySlug() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for key, slug := range r.byKey {
		out[slug] = append(out[slug], key)
	}
	return out
}

// Groups retorna la tabla completa (persistida + añadida) lista para
// volcar a disco al final del run.
func (r *AliasRegistry) Groups() []domain.AliasGroup {
	out := make([]domain.AliasGroup, len(r.groups))
	copy(out, r.groups)
	return out
}

// Added retorna cuántos aliases se añadieron durante este run.
func (r *AliasRegistry) Added() int {
	return r.added
}
