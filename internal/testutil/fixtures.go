// internal/testutil/fixtures.go
package testutil

import (
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// Hero construye un registro canónico de prueba con slug explícito.
// El slug se fija a mano (no se deriva) para poder reproducir snapshots
// históricos con convenciones de slug ajenas, como "summer_tiki__adult_".
func Hero(slug, displayName, sourceURL string) *domain.HeroRecord {
	return &domain.HeroRecord{
		Slug:          slug,
		DisplayName:   displayName,
		SourceURL:     sourceURL,
		DiscoveredVia: "fixture",
		DiscoveredAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Incoming construye un registro entrante de prueba.
func Incoming(name, url, source string) domain.IncomingRecord {
	return domain.IncomingRecord{Name: name, URL: url, Source: source}
}

// AliasTable construye una tabla de aliases de prueba.
func AliasTable(groups ...domain.AliasGroup) []domain.AliasGroup {
	return groups
}
