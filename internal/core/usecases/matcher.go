// internal/core/usecases/matcher.go
package usecases

import (
	"fmt"
	"strings"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// Matcher resuelve nombres procedentes de otras fuentes contra las
// identidades canónicas ya conocidas. El matching es por tiers en orden
// estricto de prioridad: el primer tier que tiene éxito gana y las
// señales nunca se combinan entre tiers. Si ningún tier tiene éxito el
// resultado es un no-match explícito; el caller jamás debe convertirlo
// en una conjetura ni crear una identidad a partir de él.
type Matcher struct {
	logger logx.Logger
}

// NewMatcher crea un matcher.
func NewMatcher(logger logx.Logger) *Matcher {
	return &Matcher{logger: logger.With("component", "matcher")}
}

// Match busca la identidad canónica de un nombre candidato.
// candidateSlugGuess puede venir vacío; en ese caso se deriva del nombre.
func (m *Matcher) Match(candidateName, candidateSlugGuess string, roster *Roster, aliases *AliasRegistry) domain.MatchResult {
	nameKey := normalize.SearchKey(candidateName)
	slugGuess := candidateSlugGuess
	if slugGuess == "" {
		slugGuess = normalize.SlugFromDisplay(candidateName)
	}

	if normalize.IsEmptyKey(nameKey) && normalize.IsEmptyKey(slugGuess) {
		return domain.NoMatch("candidate normalizes to an empty key")
	}

	// Tier 1: igualdad exacta de slug
	if h, ok := roster.FindBySlug(slugGuess); ok {
		return domain.MatchedAt(h.Slug, domain.MatchTierSlug)
	}

	// Tier 2: igualdad exacta de nombre normalizado
	for _, h := range roster.Records() {
		if h.SearchKey() == nameKey {
			return domain.MatchedAt(h.Slug, domain.MatchTierName)
		}
	}

	// Tier 3: alias registrado
	if slug, ok := aliases.Lookup(candidateName); ok {
		if _, known := roster.FindBySlug(slug); known {
			return domain.MatchedAt(slug, domain.MatchTierAlias)
		}
		// Alias colgante: apunta a una identidad que no está en el
		// snapshot. Señal para curación manual, nunca un match.
		return domain.NoMatch(fmt.Sprintf("alias resolves to unknown identity %q", slug))
	}

	// Tier 4: fallback por prefijo del primer token del slug. Último
	// recurso para nombres compuestos (personaje + epíteto) cuyo epíteto
	// difiere entre fuentes.
	if base := firstToken(slugGuess); base != "" {
		prefix := base + "_"
		for _, h := range roster.Records() {
			if strings.HasPrefix(h.Slug, prefix) {
				return domain.MatchedAt(h.Slug, domain.MatchTierTokenPrefix)
			}
		}
	}

	// Tier 5: contención de substring entre nombres normalizados.
	// La señal más débil; solo cuando no hay ninguna señal basada en slug.
	if !normalize.IsEmptyKey(nameKey) {
		for _, h := range roster.Records() {
			hk := h.SearchKey()
			if hk == "" {
				continue
			}
			if strings.Contains(nameKey, hk) || strings.Contains(hk, nameKey) {
				return domain.MatchedAt(h.Slug, domain.MatchTierSubstring)
			}
		}
	}

	return domain.NoMatch(fmt.Sprintf("no tier matched %q (slug guess %q)", candidateName, slugGuess))
}

// firstToken retorna el primer token de un slug delimitado por guiones
// bajos: el presunto nombre base del personaje.
func firstToken(slug string) string {
	if slug == "" {
		return ""
	}
	if i := strings.IndexByte(slug, '_'); i > 0 {
		return slug[:i]
	}
	return slug
}
