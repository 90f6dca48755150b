package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

// fakeSource es una fuente in-memory para tests del pipeline.
type fakeSource struct {
	name    string
	role    domain.SourceRole
	records []domain.IncomingRecord
	err     error
}

func (s *fakeSource) Name() string            { return s.name }
func (s *fakeSource) Role() domain.SourceRole { return s.role }
func (s *fakeSource) Type() domain.SourceType { return domain.SourceTypeFile }
func (s *fakeSource) Close() error            { return nil }

func (s *fakeSource) Fetch(context.Context) ([]domain.IncomingRecord, error) {
	return s.records, s.err
}

// fakeStore es un SnapshotStore in-memory con inyección de errores.
type fakeStore struct {
	roster     []*domain.HeroRecord
	aliases    []domain.AliasGroup
	unresolved []domain.UnresolvedEntry

	loadErr error
	saveErr error

	savedRoster  bool
	savedAliases bool
	appended     []domain.UnresolvedEntry
}

func (s *fakeStore) LoadRoster() ([]*domain.HeroRecord, error) {
	return s.roster, s.loadErr
}

func (s *fakeStore) SaveRoster(roster []*domain.HeroRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.roster = roster
	s.savedRoster = true
	return nil
}

func (s *fakeStore) LoadAliases() ([]domain.AliasGroup, error) {
	return s.aliases, s.loadErr
}

func (s *fakeStore) SaveAliases(groups []domain.AliasGroup) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.aliases = groups
	s.savedAliases = true
	return nil
}

func (s *fakeStore) LoadUnresolved() ([]domain.UnresolvedEntry, error) {
	return s.unresolved, s.loadErr
}

func (s *fakeStore) AppendUnresolved(entries []domain.UnresolvedEntry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.appended = append(s.appended, entries...)
	return nil
}

func newTestPipeline(store *fakeStore, sources ...*fakeSource) *Pipeline {
	opts := PipelineOptions{
		Store:      store,
		Logger:     logx.NewSilent(),
		MaxWorkers: 2,
		Version:    "test",
	}
	for _, s := range sources {
		opts.Sources = append(opts.Sources, s)
	}
	return NewPipeline(opts)
}

func TestPipelineRunEndToEnd(t *testing.T) {
	store := &fakeStore{
		roster: []*domain.HeroRecord{
			testutil.Hero("summer_tiki__adult_", "Summer Tiki (Adult)", "https://game8.co/archives/2002"),
		},
	}
	primary := &fakeSource{
		name: "gamepress",
		role: domain.SourceRolePrimary,
		records: []domain.IncomingRecord{
			testutil.Incoming("Fjorm: New Traditions", "https://game8.co/archives/1001", "gamepress"),
			testutil.Incoming("Summer Tiki (Adult)", "https://game8.co/archives/2002", "gamepress"),
		},
	}

	p := newTestPipeline(store, primary)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Stats.Created, 1, "created")
	testutil.AssertEqual(t, result.Stats.UpdatedByURL, 1, "updated by url")
	testutil.AssertTrue(t, store.savedRoster, "roster persisted")
	testutil.AssertTrue(t, store.savedAliases, "aliases persisted")
	testutil.AssertEqual(t, len(store.roster), 2, "snapshot grew by one identity")
}

func TestPipelineNameOnlyRecordsNeverCreate(t *testing.T) {
	store := &fakeStore{
		roster: []*domain.HeroRecord{
			testutil.Hero("fjorm", "Fjorm", "https://game8.co/archives/1001"),
		},
	}
	secondary := &fakeSource{
		name: "fandom",
		role: domain.SourceRoleSecondary,
		records: []domain.IncomingRecord{
			{Name: "FJORM", Source: "fandom"},          // resuelve por tier 2
			{Name: "Brand New Hero", Source: "fandom"}, // sin match
		},
	}

	p := newTestPipeline(store, secondary)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Stats.Created, 0, "name-only records must not create identities")
	testutil.AssertEqual(t, result.Stats.UpdatedBySlug, 1, "known name merged")
	testutil.AssertEqual(t, result.Stats.Unresolved, 1, "unknown name goes to the worklist")
	testutil.AssertEqual(t, len(store.appended), 1, "one new worklist entry persisted")
	testutil.AssertEqual(t, len(store.roster), 1, "roster unchanged")
}

func TestPipelineFallbackMatchRegistersAlias(t *testing.T) {
	store := &fakeStore{
		roster: []*domain.HeroRecord{
			testutil.Hero("fjorm_princess_of_ice", "Fjorm - Princess of Ice", "https://game8.co/archives/1001"),
		},
	}
	secondary := &fakeSource{
		name: "fandom",
		role: domain.SourceRoleSecondary,
		records: []domain.IncomingRecord{
			{Name: "Fjorm Ice Princess", Source: "fandom"}, // tier 4
		},
	}

	p := newTestPipeline(store, secondary)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Stats.AliasesAdded, 1, "fallback match registers the variant")
	if len(store.aliases) != 1 {
		t.Fatalf("expected 1 alias group persisted, got %d", len(store.aliases))
	}
	testutil.AssertEqual(t, store.aliases[0].CanonicalSlug, "fjorm_princess_of_ice", "alias canonical slug")
}

func TestPipelineUnresolvedDedupAgainstExistingWorklist(t *testing.T) {
	store := &fakeStore{
		unresolved: []domain.UnresolvedEntry{
			{SourceName: "Brand New Hero", Reason: `no tier matched "Brand New Hero" (slug guess "brand_new_hero")`},
		},
	}
	secondary := &fakeSource{
		name: "fandom",
		role: domain.SourceRoleSecondary,
		records: []domain.IncomingRecord{
			{Name: "Brand New Hero", Source: "fandom"},
			{Name: "Brand New Hero", Source: "fandom"}, // duplicado en el mismo run
		},
	}

	p := newTestPipeline(store, secondary)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "run")

	// Sigue contándose como no resuelto, pero la lista no crece.
	testutil.AssertEqual(t, result.Stats.Unresolved, 2, "unresolved counter")
	testutil.AssertEqual(t, len(store.appended), 0, "no duplicate worklist entries")
}

func TestPipelineEmptyKeyRecordsAreSkipped(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{
		name: "gamepress",
		role: domain.SourceRolePrimary,
		records: []domain.IncomingRecord{
			{Name: "???", URL: "https://game8.co/archives/1", Source: "gamepress"},
		},
	}

	p := newTestPipeline(store, src)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Stats.Skipped, 1, "skipped counter")
	testutil.AssertEqual(t, result.Stats.Total(), 0, "no outcome recorded")
	testutil.AssertTrue(t, len(result.Warnings) > 0, "skip leaves a warning")
}

func TestPipelineSourceFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	ok := &fakeSource{
		name: "gamepress",
		role: domain.SourceRolePrimary,
		records: []domain.IncomingRecord{
			testutil.Incoming("Fjorm", "https://game8.co/archives/1001", "gamepress"),
		},
	}
	broken := &fakeSource{name: "game8", role: domain.SourceRolePrimary, err: errors.New("connection refused")}

	p := newTestPipeline(store, ok, broken)
	result, err := p.Run(context.Background())
	testutil.AssertNoError(t, err, "a failed source must not abort the run")

	testutil.AssertEqual(t, result.Stats.Created, 1, "surviving source still reconciled")
	testutil.AssertTrue(t, result.HasErrors(), "failure recorded in the result")
	testutil.AssertFalse(t, result.HasFatalErrors(), "source failures are non-fatal")
}

func TestPipelineLoadFailureIsFatal(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("disk on fire")}
	src := &fakeSource{name: "gamepress", role: domain.SourceRolePrimary}

	p := newTestPipeline(store, src)
	_, err := p.Run(context.Background())
	testutil.AssertError(t, err, "unreadable snapshot must abort the run")
	testutil.AssertFalse(t, store.savedRoster, "nothing written after a load failure")
}

func TestPipelineSaveFailureIsFatal(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	src := &fakeSource{
		name: "gamepress",
		role: domain.SourceRolePrimary,
		records: []domain.IncomingRecord{
			testutil.Incoming("Fjorm", "https://game8.co/archives/1001", "gamepress"),
		},
	}

	p := newTestPipeline(store, src)
	_, err := p.Run(context.Background())
	testutil.AssertError(t, err, "unwritable snapshot must abort the run")
}

func TestPipelineNoSources(t *testing.T) {
	p := newTestPipeline(&fakeStore{})
	_, err := p.Run(context.Background())
	testutil.AssertError(t, err, "run without sources")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoSourcesAvailable), "sentinel error")
}
