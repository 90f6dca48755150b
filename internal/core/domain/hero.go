// internal/core/domain/hero.go
package domain

import (
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// PlaceholderTag es el valor centinela que un pase "refresh" puede
// sobreescribir. Un tag específico nunca se sobreescribe.
const PlaceholderTag = "legacy"

// HeroRecord representa la identidad canónica de un héroe: un registro
// único por personaje, deduplicado entre todas las fuentes.
type HeroRecord struct {
	// Slug es el identificador canónico, derivado del display name en el
	// momento de creación. Inmutable: nunca se recalcula aunque el nombre
	// se corrija después.
	Slug string `json:"slug"`

	// DisplayName nombre legible. Puede limpiarse tras la creación pero
	// nunca se reemplaza por datos de menor confianza.
	DisplayName string `json:"display_name"`

	// SourceURL referencia externa autoritativa. Clave primaria de
	// deduplicación: las URLs no cambian, los nombres sí.
	SourceURL string `json:"source_url,omitempty"`

	// Attributes campos opcionales, cada uno rellenable de forma
	// independiente por la primera fuente que lo aporte.
	Attributes HeroAttributes `json:"attributes"`

	// DiscoveredVia fuente que creó el registro. Inmutable.
	DiscoveredVia string `json:"discovered_via"`

	// DiscoveredAt momento de creación. Inmutable.
	DiscoveredAt time.Time `json:"discovered_at"`
}

// HeroAttributes agrupa los atributos opcionales de un héroe. Cada campo
// es independientemente nulo y se rellena solo cuando está vacío.
type HeroAttributes struct {
	WeaponType  string `json:"weapon_type,omitempty"`
	MoveType    string `json:"move_type,omitempty"`
	Tier        *int   `json:"tier,omitempty"`
	Rarity      *int   `json:"rarity,omitempty"`
	Tag         string `json:"tag,omitempty"`
	ArchiveID   *int   `json:"archive_id,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Illustrator string `json:"illustrator,omitempty"`
}

// NewHeroRecord crea un registro canónico a partir de un nombre crudo.
// El slug se deriva una sola vez del display name limpio.
func NewHeroRecord(rawName, sourceURL, discoveredVia string) *HeroRecord {
	display := normalize.DisplayName(rawName)
	return &HeroRecord{
		Slug:          normalize.Slug(display),
		DisplayName:   display,
		SourceURL:     sourceURL,
		DiscoveredVia: discoveredVia,
		DiscoveredAt:  time.Now(),
	}
}

// SearchKey retorna la clave de comparación del display name.
func (h *HeroRecord) SearchKey() string {
	return normalize.SearchKey(h.DisplayName)
}

// IsValid verifica que el registro tenga identidad utilizable.
func (h *HeroRecord) IsValid() bool {
	return h.Slug != "" && h.DisplayName != ""
}

// MergeAttributes aplica la política de merge sobre los atributos:
// cada campo del destino solo se rellena si está vacío; si ambos tienen
// valor y difieren, gana el existente. Un pase refresh puede reemplazar
// únicamente el tag centinela PlaceholderTag.
// Retorna el número de campos modificados.
func (h *HeroRecord) MergeAttributes(in HeroAttributes, refresh bool) int {
	changed := 0

	if h.Attributes.WeaponType == "" && in.WeaponType != "" {
		h.Attributes.WeaponType = in.WeaponType
		changed++
	}
	if h.Attributes.MoveType == "" && in.MoveType != "" {
		h.Attributes.MoveType = in.MoveType
		changed++
	}
	if h.Attributes.Tier == nil && in.Tier != nil {
		v := *in.Tier
		h.Attributes.Tier = &v
		changed++
	}
	if h.Attributes.Rarity == nil && in.Rarity != nil {
		v := *in.Rarity
		h.Attributes.Rarity = &v
		changed++
	}
	if h.Attributes.ArchiveID == nil && in.ArchiveID != nil {
		v := *in.ArchiveID
		h.Attributes.ArchiveID = &v
		changed++
	}
	if h.Attributes.ImageURL == "" && in.ImageURL != "" {
		h.Attributes.ImageURL = in.ImageURL
		changed++
	}
	if h.Attributes.Illustrator == "" && in.Illustrator != "" {
		h.Attributes.Illustrator = in.Illustrator
		changed++
	}

	switch {
	case h.Attributes.Tag == "" && in.Tag != "":
		h.Attributes.Tag = in.Tag
		changed++
	case refresh && h.Attributes.Tag == PlaceholderTag && in.Tag != "" && in.Tag != PlaceholderTag:
		// Refresh: solo el centinela es reemplazable
		h.Attributes.Tag = in.Tag
		changed++
	}

	return changed
}

// IntPtr helper para construir atributos numéricos opcionales.
func IntPtr(v int) *int {
	return &v
}
