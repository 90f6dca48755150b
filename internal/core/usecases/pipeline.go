// internal/core/usecases/pipeline.go
package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/normalize"
)

// Pipeline coordina una ejecución completa de reconciliación:
//
//	fetch (concurrente) -> reconcile (secuencial) -> persist (atómico)
//
// Solo el fetch de las fuentes es concurrente; la reconciliación en sí es
// single-threaded y batch: snapshot completo en memoria, una pasada de
// upserts, y escritura atómica al final. Sin visibilidad de escrituras
// parciales: si el run muere a medias, el snapshot anterior queda intacto.
type Pipeline struct {
	sources    []ports.Source
	store      ports.SnapshotStore
	matcher    *Matcher
	reconciler *Reconciler
	presenter  ports.Presenter
	logger     logx.Logger
	maxWorkers int
	version    string
}

// PipelineOptions configura el pipeline.
type PipelineOptions struct {
	Sources    []ports.Source
	Store      ports.SnapshotStore
	Presenter  ports.Presenter
	Logger     logx.Logger
	MaxWorkers int
	Version    string
}

// NewPipeline crea una nueva instancia del pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 3
	}
	if opts.Presenter == nil {
		opts.Presenter = noopPresenter{}
	}

	return &Pipeline{
		sources:    opts.Sources,
		store:      opts.Store,
		matcher:    NewMatcher(opts.Logger),
		reconciler: NewReconciler(opts.Logger),
		presenter:  opts.Presenter,
		logger:     opts.Logger.With("component", "pipeline"),
		maxWorkers: opts.MaxWorkers,
		version:    opts.Version,
	}
}

// Run ejecuta el pipeline completo. Los problemas por registro se
// acumulan en el resultado; solo los fallos de infraestructura
// (snapshot ilegible/inescribible) son fatales y retornan error.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunResult, error) {
	if len(p.sources) == 0 {
		return nil, domain.ErrNoSourcesAvailable
	}

	result := domain.NewRunResult()
	result.Metadata.Version = p.version

	// Cargar el snapshot completo. Fallo aquí = fatal, sin escrituras.
	records, err := p.store.LoadRoster()
	if err != nil {
		return nil, errors.Wrap(err, "load roster snapshot")
	}
	aliasTable, err := p.store.LoadAliases()
	if err != nil {
		return nil, errors.Wrap(err, "load alias table")
	}
	existingUnresolved, err := p.store.LoadUnresolved()
	if err != nil {
		return nil, errors.Wrap(err, "load unresolved worklist")
	}

	roster := NewRoster(records)
	aliases := NewAliasRegistry(aliasTable, p.logger)

	p.logger.Info("snapshot loaded",
		"identities", roster.Len(),
		"alias_groups", len(aliasTable),
		"unresolved", len(existingUnresolved),
	)

	// Fase fetch: concurrente con workers acotados.
	names := make([]string, 0, len(p.sources))
	for _, s := range p.sources {
		names = append(names, s.Name())
	}
	p.presenter.RunStarted(names)
	p.fetchAll(ctx, result)

	// Fase reconcile: estrictamente secuencial.
	newUnresolved := p.reconcile(result, roster, aliases, existingUnresolved)

	// Fase persist: todo o nada.
	if err := p.store.SaveRoster(roster.Records()); err != nil {
		return nil, errors.Wrap(err, "save roster snapshot")
	}
	if err := p.store.SaveAliases(aliases.Groups()); err != nil {
		return nil, errors.Wrap(err, "save alias table")
	}
	if len(newUnresolved) > 0 {
		if err := p.store.AppendUnresolved(newUnresolved); err != nil {
			return nil, errors.Wrap(err, "append unresolved worklist")
		}
	}

	result.NewUnresolved = newUnresolved
	result.Stats.AliasesAdded = aliases.Added()
	result.Finalize()

	p.presenter.Report(result, sampleUnresolved(newUnresolved, 10))

	p.logger.Info("run finished",
		"incoming", len(result.Incoming),
		"created", result.Stats.Created,
		"updated_by_url", result.Stats.UpdatedByURL,
		"updated_by_slug", result.Stats.UpdatedBySlug,
		"rejected", result.Stats.Rejected,
		"unresolved", result.Stats.Unresolved,
		"aliases_added", result.Stats.AliasesAdded,
	)

	return result, nil
}

// fetchAll ejecuta todas las fuentes con un semáforo de workers.
// Los errores de fuente no son fatales: el run continúa con lo recogido.
func (p *Pipeline) fetchAll(ctx context.Context, result *domain.RunResult) {
	type sourceOutput struct {
		name    string
		records []domain.IncomingRecord
		err     error
	}

	sem := make(chan struct{}, p.maxWorkers)
	outputs := make(chan sourceOutput, len(p.sources))

	var wg sync.WaitGroup
	for _, src := range p.sources {
		wg.Add(1)
		go func(src ports.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			records, err := src.Fetch(ctx)
			outputs <- sourceOutput{name: src.Name(), records: records, err: err}
		}(src)
	}
	wg.Wait()
	close(outputs)

	for out := range outputs {
		result.Metadata.SourcesUsed = append(result.Metadata.SourcesUsed, out.name)
		if out.err != nil {
			result.AddError(out.name, out.err.Error(), false)
			p.logger.Warn("source failed", "source", out.name, "error", out.err.Error())
		}
		result.AddIncoming(out.records...)
		p.presenter.SourceFinished(out.name, len(out.records), out.err)
	}
}

// reconcile aplica la pasada secuencial de upserts sobre el roster.
// Retorna las entradas nuevas para la lista de trabajo de no resueltos.
func (p *Pipeline) reconcile(
	result *domain.RunResult,
	roster *Roster,
	aliases *AliasRegistry,
	existing []domain.UnresolvedEntry,
) []domain.UnresolvedEntry {
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u.Key()] = true
	}

	var newUnresolved []domain.UnresolvedEntry

	for _, rec := range result.Incoming {
		// Fallo de normalización: registro sin clave derivable, se salta.
		if normalize.IsEmptyKey(rec.SlugGuess()) && normalize.IsEmptyKey(normalize.SearchKey(rec.Name)) {
			result.Stats.Skipped++
			result.AddWarning(rec.Source, fmt.Sprintf("record %q normalizes to an empty key, skipped", rec.Name))
			continue
		}

		// Registros con URL van por upsert directo; los name-only de
		// fuentes secundarias se resuelven vía matcher y jamás crean
		// identidades.
		if rec.HasURL() {
			res := p.reconciler.Upsert(roster, rec)
			result.Stats.Record(res.Outcome)
			if res.Outcome == domain.OutcomeRejected {
				result.AddWarning(rec.Source, fmt.Sprintf("record %q rejected: %s", rec.Name, res.Reason))
			}
			continue
		}

		match := p.matcher.Match(rec.Name, rec.SlugGuess(), roster, aliases)
		if !match.Matched {
			entry := domain.UnresolvedEntry{
				SourceName:      rec.Name,
				SourceSlugGuess: rec.SlugGuess(),
				Reason:          match.Reason,
				FirstSeen:       result.Metadata.StartTime,
			}
			if !seen[entry.Key()] {
				seen[entry.Key()] = true
				newUnresolved = append(newUnresolved, entry)
			}
			result.Stats.Unresolved++
			continue
		}

		target, ok := roster.FindBySlug(match.Slug)
		if !ok {
			// No debería ocurrir: el matcher solo retorna slugs del roster
			result.AddWarning(rec.Source, fmt.Sprintf("match for %q resolved to missing slug %q", rec.Name, match.Slug))
			continue
		}

		// Un match por fallback confirma una variante de nombre que aún
		// no estaba registrada: se añade como alias para futuros runs.
		if match.Tier == domain.MatchTierTokenPrefix || match.Tier == domain.MatchTierSubstring {
			aliases.Register(rec.Name, target.DisplayName, target.Slug)
		}

		p.reconciler.MergeInto(roster, target, rec)
		result.Stats.Record(domain.OutcomeUpdatedBySlug)
	}

	return newUnresolved
}

// sampleUnresolved retorna una muestra acotada para el informe.
func sampleUnresolved(entries []domain.UnresolvedEntry, n int) []domain.UnresolvedEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// noopPresenter es el presenter por defecto (tests, modo silencioso).
type noopPresenter struct{}

func (noopPresenter) RunStarted([]string)                                {}
func (noopPresenter) SourceFinished(string, int, error)                  {}
func (noopPresenter) Report(*domain.RunResult, []domain.UnresolvedEntry) {}
