// internal/core/usecases/reconciler.go
package usecases

import (
	"regexp"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// authoritativeURL valida que una URL pertenezca al espacio de URLs del
// wiki de archivo (páginas /archives/<id>). Solo un registro con URL
// autoritativa puede crear una identidad canónica nueva: nunca se
// fabrican identidades a partir de fragmentos de scrape no verificables.
var authoritativeURL = regexp.MustCompile(`^https?://[^/]+/archives/\d+$`)

// Reconciler decide, para cada registro entrante, si crea una identidad
// canónica nueva, hace merge sobre una existente (por URL o por slug) o
// rechaza el registro. Precedencia estricta: la igualdad de URL es
// autoritativa sobre la igualdad de slug, porque las URLs no se renombran
// y los nombres sí.
type Reconciler struct {
	logger logx.Logger
}

// NewReconciler crea un reconciler.
func NewReconciler(logger logx.Logger) *Reconciler {
	return &Reconciler{logger: logger.With("component", "reconciler")}
}

// UpsertResult es el resultado del upsert de un registro.
type UpsertResult struct {
	// Outcome clasificación del resultado
	Outcome domain.Outcome

	// Record la identidad creada o actualizada (nil si rejected)
	Record *domain.HeroRecord

	// Reason motivo del rechazo (solo cuando Outcome es rejected)
	Reason string
}

// Upsert aplica un registro entrante sobre el roster.
//
// Paso 1: match por URL (autoritativo). Paso 2: match por slug derivado
// del nombre. Paso 3: crear, pero solo si el registro lleva una URL
// autoritativa válida; si no, rechazar.
func (rc *Reconciler) Upsert(roster *Roster, rec domain.IncomingRecord) UpsertResult {
	if rec.Name == "" {
		return reject("record has no name", rec, rc.logger)
	}

	// Paso 1: URL. Dos grafías distintas con la misma URL son la misma
	// entidad.
	if rec.HasURL() {
		if target, ok := roster.FindByURL(rec.URL); ok {
			rc.merge(roster, target, rec)
			return UpsertResult{Outcome: domain.OutcomeUpdatedByURL, Record: target}
		}
	}

	slug := rec.SlugGuess()
	if normalize.IsEmptyKey(slug) {
		// Fallo de normalización: de una clave vacía no puede derivarse
		// identidad.
		return reject("name normalizes to an empty key", rec, rc.logger)
	}

	// Paso 2: slug
	if target, ok := roster.FindBySlug(slug); ok {
		rc.merge(roster, target, rec)
		return UpsertResult{Outcome: domain.OutcomeUpdatedBySlug, Record: target}
	}

	// Paso 3: identidad nueva, solo con URL autoritativa validada
	if !rec.HasURL() || !authoritativeURL.MatchString(rec.URL) {
		return reject("no authoritative source url", rec, rc.logger)
	}

	h := domain.NewHeroRecord(rec.Name, rec.URL, rec.Source)
	h.MergeAttributes(rec.Attributes, rec.Refresh)
	roster.Add(h)

	return UpsertResult{Outcome: domain.OutcomeCreated, Record: h}
}

// MergeInto aplica los atributos de un registro resuelto por el matcher
// sobre su identidad canónica. Se usa para observaciones cross-source que
// no pasan por Upsert (no llevan URL) pero sí aportan atributos.
func (rc *Reconciler) MergeInto(roster *Roster, target *domain.HeroRecord, rec domain.IncomingRecord) {
	rc.merge(roster, target, rec)
}

// merge aplica la política de merge sobre un target existente: atributos
// solo-si-nulo, URL solo si el target no tiene y la entrante es
// autoritativa. El backfill de URL pasa por el roster para mantener el
// índice por URL al día dentro del run. Slug, DiscoveredVia y
// DiscoveredAt nunca se tocan.
func (rc *Reconciler) merge(roster *Roster, target *domain.HeroRecord, rec domain.IncomingRecord) {
	changed := target.MergeAttributes(rec.Attributes, rec.Refresh)

	if rec.HasURL() && authoritativeURL.MatchString(rec.URL) && roster.SetURL(target, rec.URL) {
		changed++
	}

	if changed > 0 {
		rc.logger.Debug("merged incoming record",
			"slug", target.Slug,
			"source", rec.Source,
			"fields", changed,
		)
	}
}

func reject(reason string, rec domain.IncomingRecord, logger logx.Logger) UpsertResult {
	logger.Debug("record rejected",
		"name", rec.Name,
		"source", rec.Source,
		"reason", reason,
	)
	return UpsertResult{Outcome: domain.OutcomeRejected, Reason: reason}
}
