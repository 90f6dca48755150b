// internal/core/domain/match.go
package domain

// MatchTier identifica el nivel de matching que resolvió un candidato.
// Los tiers se evalúan en orden estricto y nunca se combinan.
type MatchTier string

const (
	// MatchTierSlug igualdad exacta de slugs (tier 1)
	MatchTierSlug MatchTier = "slug_exact"

	// MatchTierName igualdad exacta de nombres normalizados (tier 2)
	MatchTierName MatchTier = "name_exact"

	// MatchTierAlias alias registrado resuelto a su slug (tier 3)
	MatchTierAlias MatchTier = "alias"

	// MatchTierTokenPrefix fallback por prefijo del primer token del slug,
	// último recurso para nombres compuestos cuyo epíteto difiere entre
	// fuentes (tier 4)
	MatchTierTokenPrefix MatchTier = "token_prefix"

	// MatchTierSubstring contención de substring entre nombres, la señal
	// más débil (tier 5)
	MatchTierSubstring MatchTier = "substring"

	// MatchTierNone ningún tier tuvo éxito: no-match explícito.
	// Nunca se convierte silenciosamente en una conjetura.
	MatchTierNone MatchTier = "none"
)

// MatchResult es el resultado de buscar la identidad canónica de un
// nombre procedente de otra fuente.
type MatchResult struct {
	// Matched indica si algún tier tuvo éxito
	Matched bool

	// Slug identidad canónica encontrada (vacío si no hay match)
	Slug string

	// Tier nivel que produjo el match
	Tier MatchTier

	// Reason motivo del no-match (solo cuando Matched es false)
	Reason string
}

// NoMatch construye un resultado de no-match explícito.
func NoMatch(reason string) MatchResult {
	return MatchResult{Matched: false, Tier: MatchTierNone, Reason: reason}
}

// MatchedAt construye un resultado de match en el tier indicado.
func MatchedAt(slug string, tier MatchTier) MatchResult {
	return MatchResult{Matched: true, Slug: slug, Tier: tier}
}
