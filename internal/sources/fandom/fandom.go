// internal/sources/fandom/fandom.go
package fandom

import (
	"context"
	"strings"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/httpclient"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/registry"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/common"
)

// defaultCategoryPath ruta de la página de categoría de héroes.
// Sobreescribible vía Custom["category_path"].
const defaultCategoryPath = "/wiki/Category:Heroes"

// memberClass clase CSS del contenedor de miembros de una categoría
// en los wikis de Fandom.
const memberClass = "category-page__members"

// Auto-registro de la fuente al importar el package.
func init() {
	if err := registry.Global().Register(
		"fandom",
		func(cfg ports.SourceConfig, deps registry.Deps) (ports.Source, error) {
			return New(cfg, deps)
		},
		ports.SourceMetadata{
			Name:        "fandom",
			Description: "Wiki naming convention, name-only candidates",
			Role:        domain.SourceRoleSecondary,
			Type:        domain.SourceTypeHTML,
			RateLimit:   1.0,
		},
	); err != nil {
		logx.New().Warn("failed to register fandom source", "error", err.Error())
	}
}

// Naming implementa la fuente de naming del segundo wiki. Solo produce
// nombres: sus registros no llevan URL autoritativa y por tanto nunca
// pueden crear identidades, solo resolverse contra las existentes.
type Naming struct {
	client *httpclient.Client
	cfg    ports.SourceConfig
	logger logx.Logger
}

// New crea la fuente de naming.
func New(cfg ports.SourceConfig, deps registry.Deps) (*Naming, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("fandom: base url is required")
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
		UserAgent:  deps.UserAgent,
		RateLimit:  cfg.RateLimit,
		ProxyURL:   deps.ProxyURL,
	}, deps.PageCache, deps.CacheTTL, deps.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "fandom: http client")
	}

	return &Naming{
		client: client,
		cfg:    cfg,
		logger: deps.Logger.With("source", "fandom"),
	}, nil
}

func (s *Naming) Name() string            { return "fandom" }
func (s *Naming) Role() domain.SourceRole { return domain.SourceRoleSecondary }
func (s *Naming) Type() domain.SourceType { return domain.SourceTypeHTML }

// Fetch descarga la página de categoría y extrae los nombres listados.
func (s *Naming) Fetch(ctx context.Context) ([]domain.IncomingRecord, error) {
	path := defaultCategoryPath
	if v, ok := s.cfg.Custom["category_path"].(string); ok && v != "" {
		path = v
	}
	pageURL, err := common.JoinURL(s.cfg.BaseURL, path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetching hero category", "url", pageURL)

	body, err := s.client.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "fandom: category fetch failed")
	}

	records, err := s.Parse(body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category fetched", "names", len(records))
	return records, nil
}

// Parse extrae los nombres de los enlaces del contenedor de miembros.
// Nombres duplicados se emiten una sola vez; páginas de mantenimiento
// del wiki (plantillas, redirecciones) se reconocen por el prefijo de
// namespace y se descartan.
func (s *Naming) Parse(body []byte) ([]domain.IncomingRecord, error) {
	doc, err := common.ParseHTML(body)
	if err != nil {
		return nil, errors.Wrap(err, "fandom: category page")
	}

	container := common.FindByClass(doc, memberClass)
	if container == nil {
		s.logger.Warn("category member container not found")
		return nil, nil
	}

	seen := make(map[string]bool)
	var records []domain.IncomingRecord
	for _, anchor := range common.FindAll(container, "a") {
		name := strings.TrimSpace(common.Text(anchor))
		if name == "" || seen[name] {
			continue
		}
		// Los enlaces de namespace (Category:, Template:, File:) no son
		// héroes.
		if strings.Contains(name, ":") && isNamespaceLink(name) {
			continue
		}
		seen[name] = true
		records = append(records, domain.IncomingRecord{
			Name:    name,
			Source:  s.Name(),
			Refresh: s.cfg.Refresh,
		})
	}
	return records, nil
}

// isNamespaceLink distingue un enlace de namespace del wiki de un nombre
// de héroe con dos puntos ("Tiki: Naga's Voice"): el namespace va pegado
// a los dos puntos y el epíteto de un héroe lleva espacio detrás.
func isNamespaceLink(name string) bool {
	i := strings.Index(name, ":")
	if i <= 0 || i+1 >= len(name) {
		return true
	}
	return name[i+1] != ' '
}

func (s *Naming) Close() error {
	s.logger.Debug("closing fandom source")
	return nil
}
