// internal/core/usecases/roster.go
package usecases

import (
	"sort"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// Roster es el contexto de identidades de una ejecución: el snapshot
// completo cargado en memoria más los índices de resolución por URL y por
// slug. Se construye una vez al inicio del run y se pasa explícitamente;
// no hay estado ambiente.
type Roster struct {
	records []*domain.HeroRecord
	byURL   map[string]*domain.HeroRecord
	bySlug  map[string]*domain.HeroRecord
}

// NewRoster indexa un snapshot de identidades canónicas.
// Registros inválidos se descartan silenciosamente (el snapshot es
// nuestro, un registro sin slug no debería existir).
func NewRoster(records []*domain.HeroRecord) *Roster {
	r := &Roster{
		records: make([]*domain.HeroRecord, 0, len(records)),
		byURL:   make(map[string]*domain.HeroRecord),
		bySlug:  make(map[string]*domain.HeroRecord),
	}
	for _, h := range records {
		if h == nil || !h.IsValid() {
			continue
		}
		r.add(h)
	}
	return r
}

func (r *Roster) add(h *domain.HeroRecord) {
	r.records = append(r.records, h)
	r.bySlug[h.Slug] = h
	if h.SourceURL != "" {
		r.byURL[h.SourceURL] = h
	}
}

// Add incorpora una identidad recién creada a los índices.
func (r *Roster) Add(h *domain.HeroRecord) {
	if h == nil || !h.IsValid() {
		return
	}
	r.add(h)
}

// SetURL rellena la URL autoritativa de una identidad que no la tenía y
// la incorpora al índice por URL, de modo que los siguientes registros
// del mismo run con esa URL resuelvan por el paso autoritativo. No-op si
// la identidad ya tiene URL: las URLs no se reemplazan.
func (r *Roster) SetURL(h *domain.HeroRecord, url string) bool {
	if h == nil || url == "" || h.SourceURL != "" {
		return false
	}
	h.SourceURL = url
	r.byURL[url] = h
	return true
}

// FindByURL localiza una identidad por su URL autoritativa.
func (r *Roster) FindByURL(url string) (*domain.HeroRecord, bool) {
	if url == "" {
		return nil, false
	}
	h, ok := r.byURL[url]
	return h, ok
}

// FindBySlug localiza una identidad por su slug canónico.
func (r *Roster) FindBySlug(slug string) (*domain.HeroRecord, bool) {
	if slug == "" {
		return nil, false
	}
	h, ok := r.bySlug[slug]
	return h, ok
}

// Records retorna el snapshot ordenado por slug, listo para persistir.
func (r *Roster) Records() []*domain.HeroRecord {
	out := make([]*domain.HeroRecord, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out
}

// Len retorna el número de identidades del roster.
func (r *Roster) Len() int {
	return len(r.records)
}
