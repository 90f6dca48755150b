// internal/sources/game8/game8.go
package game8

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/extract"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/httpclient"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/registry"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/common"
)

// defaultIndexPath ruta del índice de guías relativa a la BaseURL.
// Sobreescribible vía Custom["index_path"].
const defaultIndexPath = "/games/fire-emblem-heroes/archives"

var archiveIDRe = regexp.MustCompile(`/archives/(\d+)$`)

// Auto-registro de la fuente al importar el package.
func init() {
	if err := registry.Global().Register(
		"game8",
		func(cfg ports.SourceConfig, deps registry.Deps) (ports.Source, error) {
			return New(cfg, deps)
		},
		ports.SourceMetadata{
			Name:        "game8",
			Description: "Per-hero guide pages, structured fields recovered from prose",
			Role:        domain.SourceRolePrimary,
			Type:        domain.SourceTypeHTML,
			RateLimit:   2.0,
		},
	); err != nil {
		logx.New().Warn("failed to register game8 source", "error", err.Error())
	}
}

// Guides implementa la fuente de guías por héroe: un índice enlaza a una
// página de archivo por personaje, y los campos estructurados se
// recuperan de la prosa de cada guía con las reglas de extract.
type Guides struct {
	client *httpclient.Client
	cfg    ports.SourceConfig
	logger logx.Logger
}

// indexEntry es un enlace del índice: nombre visible + URL absoluta.
type indexEntry struct {
	name string
	url  string
}

// New crea la fuente de guías.
func New(cfg ports.SourceConfig, deps registry.Deps) (*Guides, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("game8: base url is required")
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
		UserAgent:  deps.UserAgent,
		RateLimit:  cfg.RateLimit,
		ProxyURL:   deps.ProxyURL,
	}, deps.PageCache, deps.CacheTTL, deps.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "game8: http client")
	}

	return &Guides{
		client: client,
		cfg:    cfg,
		logger: deps.Logger.With("source", "game8"),
	}, nil
}

func (s *Guides) Name() string            { return "game8" }
func (s *Guides) Role() domain.SourceRole { return domain.SourceRolePrimary }
func (s *Guides) Type() domain.SourceType { return domain.SourceTypeHTML }

// Fetch descarga el índice de guías y después cada página de archivo.
// El fallo de una página individual no aborta el lote: se registra y se
// continúa con la siguiente.
func (s *Guides) Fetch(ctx context.Context) ([]domain.IncomingRecord, error) {
	path := defaultIndexPath
	if v, ok := s.cfg.Custom["index_path"].(string); ok && v != "" {
		path = v
	}
	indexURL, err := common.JoinURL(s.cfg.BaseURL, path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetching guide index", "url", indexURL)

	body, err := s.client.FetchPage(ctx, indexURL)
	if err != nil {
		return nil, errors.Wrap(err, "game8: guide index fetch failed")
	}

	entries, err := s.ParseIndex(body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("guide index parsed", "entries", len(entries))

	records := make([]domain.IncomingRecord, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		page, err := s.client.FetchPage(ctx, entry.url)
		if err != nil {
			s.logger.Warn("guide page fetch failed, skipping",
				"url", entry.url,
				"error", err.Error(),
			)
			continue
		}

		rec, err := s.ParseGuide(entry, page)
		if err != nil {
			s.logger.Warn("guide page unparseable, skipping",
				"url", entry.url,
				"error", err.Error(),
			)
			continue
		}
		records = append(records, rec)
	}

	s.logger.Info("guides fetched", "index_entries", len(entries), "records", len(records))
	return records, nil
}

// ParseIndex extrae los enlaces de archivo del índice de guías,
// deduplicados por ID de archivo (el índice repite enlaces en varias
// secciones de la página).
func (s *Guides) ParseIndex(body []byte) ([]indexEntry, error) {
	doc, err := common.ParseHTML(body)
	if err != nil {
		return nil, errors.Wrap(err, "game8: guide index page")
	}

	seen := make(map[string]bool)
	var entries []indexEntry
	for _, anchor := range common.FindAll(doc, "a") {
		href := strings.TrimRight(common.Attr(anchor, "href"), "/")
		if !archiveIDRe.MatchString(href) {
			continue
		}
		name := strings.TrimSpace(common.Text(anchor))
		if name == "" {
			continue
		}
		absolute, err := common.JoinURL(s.cfg.BaseURL, href)
		if err != nil {
			continue
		}
		if seen[absolute] {
			continue
		}
		seen[absolute] = true
		entries = append(entries, indexEntry{name: name, url: absolute})
	}
	return entries, nil
}

// ParseGuide convierte una página de guía en un registro candidato. El
// nombre extraído de la prosa manda sobre el texto del enlace del
// índice; cada campo estructurado es opcional y se omite cuando la
// regla de extracción no da un resultado fiable.
func (s *Guides) ParseGuide(entry indexEntry, body []byte) (domain.IncomingRecord, error) {
	doc, err := common.ParseHTML(body)
	if err != nil {
		return domain.IncomingRecord{}, errors.Wrap(err, "game8: guide page")
	}
	prose := common.VisibleText(doc)

	name := entry.name
	if extracted, ok := extract.HeroName(prose); ok {
		name = extracted
	}

	var attrs domain.HeroAttributes
	if weapon, move, ok := extract.WeaponMove(prose); ok {
		attrs.WeaponType = weapon
		attrs.MoveType = move
	}
	if tier, ok := extract.Rating(prose); ok {
		attrs.Tier = domain.IntPtr(tier)
	}
	if rarity, ok := extract.Rarity(prose); ok {
		attrs.Rarity = domain.IntPtr(rarity)
	}
	if illustrator, ok := extract.Illustrator(prose); ok {
		attrs.Illustrator = illustrator
	}
	if m := archiveIDRe.FindStringSubmatch(entry.url); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			attrs.ArchiveID = domain.IntPtr(id)
		}
	}

	return domain.IncomingRecord{
		Name:       name,
		URL:        entry.url,
		Attributes: attrs,
		Source:     s.Name(),
		Refresh:    s.cfg.Refresh,
	}, nil
}

func (s *Guides) Close() error {
	s.logger.Debug("closing game8 source")
	return nil
}
