// internal/platform/registry/source_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/cache"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
)

// SourceRegistry gestiona el registro y construcción de fuentes.
// Implementa el patrón Registry + Factory para desacoplar la creación
// de fuentes del código de aplicación: cada package de fuente se
// registra desde su init().
type SourceRegistry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
	metadata  map[string]ports.SourceMetadata
	logger    logx.Logger
}

// Deps agrupa las dependencias compartidas que una factory necesita
// para construir su fuente.
type Deps struct {
	// Cache de páginas compartida entre fuentes (puede ser nil).
	PageCache *cache.PageCache

	// CacheTTL tiempo de vida de las páginas cacheadas.
	CacheTTL time.Duration

	// UserAgent para las peticiones salientes.
	UserAgent string

	// ProxyURL opcional.
	ProxyURL string

	// Logger base; cada fuente añade su propio scope.
	Logger logx.Logger
}

// SourceFactory crea una instancia de Source a partir de su
// configuración y las dependencias compartidas.
type SourceFactory func(cfg ports.SourceConfig, deps Deps) (ports.Source, error)

// globalRegistry es la instancia global del registry.
var globalRegistry *SourceRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *SourceRegistry {
	once.Do(func() {
		globalRegistry = NewSourceRegistry(logx.New())
	})
	return globalRegistry
}

// NewSourceRegistry crea un registry de fuentes.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[string]SourceFactory),
		metadata:  make(map[string]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register registra una factory con su metadata.
// Típicamente llamado desde init() de cada package de fuente.
func (r *SourceRegistry) Register(name string, factory SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name, "role", meta.Role, "type", meta.Type)

	return nil
}

// Build construye todas las fuentes habilitadas según la configuración,
// en orden estable por nombre.
func (r *SourceRegistry) Build(configs map[string]ports.SourceConfig, deps Deps) ([]ports.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	names := make([]string, 0, len(configs))
	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, exists := r.factories[name]; !exists {
			r.logger.Warn("source not registered, skipping", "source", name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sources := make([]ports.Source, 0, len(names))
	var buildErrs []error

	for _, name := range names {
		source, err := r.factories[name](configs[name], deps)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to build source %s: %w", name, err))
			continue
		}
		sources = append(sources, source)
		r.logger.Debug("source built", "name", name, "role", r.metadata[name].Role)
	}

	for _, err := range buildErrs {
		r.logger.Warn("source build error", "error", err.Error())
	}

	if len(sources) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no sources could be built")
	}

	deps.Logger.Info("sources built", "count", len(sources), "requested", len(configs))
	return sources, nil
}

// List retorna los nombres de todas las fuentes registradas.
func (r *SourceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de una fuente.
func (r *SourceRegistry) GetMetadata(name string) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered verifica si una fuente está registrada.
func (r *SourceRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todas las fuentes registradas (útil para tests).
func (r *SourceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]SourceFactory)
	r.metadata = make(map[string]ports.SourceMetadata)
}
