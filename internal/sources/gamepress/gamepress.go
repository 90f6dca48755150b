// internal/sources/gamepress/gamepress.go
package gamepress

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/httpclient"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/registry"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/sources/common"
)

// defaultTierListPath ruta de la tier list relativa a la BaseURL.
// Sobreescribible vía Custom["tier_list_path"].
const defaultTierListPath = "/fire-emblem-heroes/tier-list"

var archiveIDRe = regexp.MustCompile(`/archives/(\d+)$`)

// Auto-registro de la fuente al importar el package.
func init() {
	if err := registry.Global().Register(
		"gamepress",
		func(cfg ports.SourceConfig, deps registry.Deps) (ports.Source, error) {
			return New(cfg, deps)
		},
		ports.SourceMetadata{
			Name:        "gamepress",
			Description: "Hero tier list rows with authoritative archive URLs",
			Role:        domain.SourceRolePrimary,
			Type:        domain.SourceTypeHTML,
			RateLimit:   2.0,
		},
	); err != nil {
		logx.New().Warn("failed to register gamepress source", "error", err.Error())
	}
}

// TierList implementa la fuente de la tier list: una sola página HTML
// cuyas filas llevan nombre, URL de archivo, tier y atributos básicos.
type TierList struct {
	client *httpclient.Client
	cfg    ports.SourceConfig
	logger logx.Logger
}

// New crea la fuente de tier list.
func New(cfg ports.SourceConfig, deps registry.Deps) (*TierList, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gamepress: base url is required")
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
		UserAgent:  deps.UserAgent,
		RateLimit:  cfg.RateLimit,
		ProxyURL:   deps.ProxyURL,
	}, deps.PageCache, deps.CacheTTL, deps.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "gamepress: http client")
	}

	return &TierList{
		client: client,
		cfg:    cfg,
		logger: deps.Logger.With("source", "gamepress"),
	}, nil
}

func (s *TierList) Name() string            { return "gamepress" }
func (s *TierList) Role() domain.SourceRole { return domain.SourceRolePrimary }
func (s *TierList) Type() domain.SourceType { return domain.SourceTypeHTML }

// Fetch descarga la tier list y la convierte en registros candidatos.
func (s *TierList) Fetch(ctx context.Context) ([]domain.IncomingRecord, error) {
	path := defaultTierListPath
	if v, ok := s.cfg.Custom["tier_list_path"].(string); ok && v != "" {
		path = v
	}
	pageURL, err := common.JoinURL(s.cfg.BaseURL, path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetching tier list", "url", pageURL)

	body, err := s.client.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "gamepress: tier list fetch failed")
	}

	records, err := s.Parse(body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tier list fetched", "rows", len(records))
	return records, nil
}

// Parse extrae las filas de héroe del HTML de la tier list. Filas sin
// nombre o sin enlace de archivo se descartan con un warning: una fila
// incompleta no debe envenenar el roster.
func (s *TierList) Parse(body []byte) ([]domain.IncomingRecord, error) {
	doc, err := common.ParseHTML(body)
	if err != nil {
		return nil, errors.Wrap(err, "gamepress: tier list page")
	}

	var records []domain.IncomingRecord
	for _, row := range common.FindAll(doc, "tr") {
		rec, ok := s.parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseRow lee una fila de la tabla. El enlace de archivo es obligatorio;
// el resto de celdas son opcionales.
func (s *TierList) parseRow(row *html.Node) (domain.IncomingRecord, bool) {
	anchor := common.FindFirst(row, "a")
	if anchor == nil {
		return domain.IncomingRecord{}, false
	}

	href := strings.TrimRight(common.Attr(anchor, "href"), "/")
	name := strings.TrimSpace(common.Text(anchor))
	if name == "" || !archiveIDRe.MatchString(href) {
		if name != "" {
			s.logger.Warn("tier list row without archive link, skipping", "name", name)
		}
		return domain.IncomingRecord{}, false
	}

	absolute, err := common.JoinURL(s.cfg.BaseURL, href)
	if err != nil {
		s.logger.Warn("tier list row with unparseable href, skipping", "href", href)
		return domain.IncomingRecord{}, false
	}

	attrs := domain.HeroAttributes{
		WeaponType: cellText(row, "hero-weapon"),
		MoveType:   cellText(row, "hero-move"),
		Tag:        cellText(row, "hero-tag"),
	}
	if tier, ok := cellInt(row, "hero-tier"); ok {
		attrs.Tier = domain.IntPtr(tier)
	}
	if img := common.FindFirst(row, "img"); img != nil {
		attrs.ImageURL = common.Attr(img, "src")
	}
	if m := archiveIDRe.FindStringSubmatch(absolute); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			attrs.ArchiveID = domain.IntPtr(id)
		}
	}

	return domain.IncomingRecord{
		Name:       name,
		URL:        absolute,
		Attributes: attrs,
		Source:     s.Name(),
		Refresh:    s.cfg.Refresh,
	}, true
}

func (s *TierList) Close() error {
	s.logger.Debug("closing gamepress source")
	return nil
}

func cellText(row *html.Node, class string) string {
	cell := common.FindByClass(row, class)
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(common.Text(cell))
}

func cellInt(row *html.Node, class string) (int, bool) {
	v := cellText(row, class)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
