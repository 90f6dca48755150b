// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// Source es el port primario para todas las fuentes de scraping.
// Cualquier fuente (tier list, wiki de detalle, naming de assets) debe
// implementar esta interfaz.
type Source interface {
	// Name retorna el nombre único de la fuente (ej: "gamepress", "game8")
	Name() string

	// Role retorna el papel de la fuente en la resolución de identidad
	Role() domain.SourceRole

	// Type retorna el tipo de implementación (html, api, file)
	Type() domain.SourceType

	// Fetch recoge los registros candidatos de la fuente
	Fetch(ctx context.Context) ([]domain.IncomingRecord, error)

	// Close libera recursos utilizados por la fuente
	Close() error
}

// SourceConfig contiene la configuración específica de una fuente.
type SourceConfig struct {
	// Enabled indica si la fuente está habilitada
	Enabled bool

	// BaseURL raíz de la fuente (sobreescribible para tests y mirrors)
	BaseURL string

	// Timeout tiempo máximo de ejecución
	Timeout time.Duration

	// Retries número de reintentos en caso de fallo
	Retries int

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64

	// Refresh marca los registros de la fuente como pase de refresco
	// (precedencia reducida en el merge de atributos)
	Refresh bool

	// Custom configuración específica de la fuente
	Custom map[string]interface{}
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:   true,
		Timeout:   30 * time.Second,
		Retries:   2,
		RateLimit: 2.0,
		Custom:    make(map[string]interface{}),
	}
}

// SourceMetadata contiene metadatos sobre una fuente registrada.
type SourceMetadata struct {
	Name        string
	Description string
	Role        domain.SourceRole
	Type        domain.SourceType
	RateLimit   float64 // límite recomendado de requests/segundo
}
