// internal/core/usecases/search_index.go
package usecases

import (
	"sort"
	"strings"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// SearchIndex es el consumidor read-only del índice de nombres
// normalizados: alimenta el typeahead de la aplicación web. El ranking
// (exacto > prefijo > substring, empates alfabéticos) refleja los tiers
// 1-3 del matcher y reutiliza el mismo normalizador para no divergir.
type SearchIndex struct {
	entries []searchEntry
}

type searchEntry struct {
	key         string
	slug        string
	displayName string
}

// Suggestion es una sugerencia de typeahead.
type Suggestion struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

// NewSearchIndex construye el índice desde el roster. Los aliases
// registrados también son buscables y resuelven a su identidad canónica.
func NewSearchIndex(roster *Roster, aliases *AliasRegistry) *SearchIndex {
	idx := &SearchIndex{}

	for _, h := range roster.Records() {
		idx.entries = append(idx.entries, searchEntry{
			key:         h.SearchKey(),
			slug:        h.Slug,
			displayName: h.DisplayName,
		})
	}

	if aliases != nil {
		for slug, terms := range aliases.TermsBySlug() {
			h, ok := roster.FindBySlug(slug)
			if !ok {
				continue
			}
			for _, term := range terms {
				idx.entries = append(idx.entries, searchEntry{
					key:         term,
					slug:        h.Slug,
					displayName: h.DisplayName,
				})
			}
		}
	}

	return idx
}

// Query retorna hasta limit sugerencias ordenadas por rango:
// match exacto, luego prefijo, luego substring; empates alfabéticos por
// display name. Una query que normaliza a vacío no sugiere nada.
func (idx *SearchIndex) Query(q string, limit int) []Suggestion {
	key := normalize.SearchKey(q)
	if normalize.IsEmptyKey(key) || limit <= 0 {
		return nil
	}

	type ranked struct {
		rank int // 0 exacto, 1 prefijo, 2 substring
		s    Suggestion
	}

	best := make(map[string]ranked) // por slug: el mejor rango visto
	for _, e := range idx.entries {
		var rank int
		switch {
		case e.key == key:
			rank = 0
		case strings.HasPrefix(e.key, key):
			rank = 1
		case strings.Contains(e.key, key):
			rank = 2
		default:
			continue
		}
		if prev, ok := best[e.slug]; !ok || rank < prev.rank {
			best[e.slug] = ranked{rank: rank, s: Suggestion{Slug: e.slug, DisplayName: e.displayName}}
		}
	}

	out := make([]ranked, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].rank != out[j].rank {
			return out[i].rank < out[j].rank
		}
		return out[i].s.DisplayName < out[j].s.DisplayName
	})

	if len(out) > limit {
		out = out[:limit]
	}
	suggestions := make([]Suggestion, len(out))
	for i, r := range out {
		suggestions[i] = r.s
	}
	return suggestions
}
