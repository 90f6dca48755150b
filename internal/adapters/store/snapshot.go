// internal/adapters/store/snapshot.go
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
)

const (
	rosterFile     = "heroes.json"
	aliasesFile    = "hero_aliases.json"
	unresolvedFile = "missing_mappings.json"
)

// JSONSnapshotStore persiste el snapshot como archivos JSON planos en
// un directorio. El contrato es load-all / write-all: los archivos se
// leen enteros y se escriben enteros, vía archivo temporal + rename
// para que un crash a mitad de escritura nunca deje un snapshot
// corrupto. Un archivo inexistente es un snapshot vacío, no un error.
type JSONSnapshotStore struct {
	dir    string
	logger logx.Logger
}

// NewJSONSnapshotStore crea el store sobre el directorio dado,
// creándolo si no existe.
func NewJSONSnapshotStore(dir string, logger logx.Logger) (*JSONSnapshotStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create snapshot directory %s", dir)
	}
	return &JSONSnapshotStore{
		dir:    dir,
		logger: logger.With("component", "snapshot-store"),
	}, nil
}

// LoadRoster carga el snapshot completo de identidades canónicas.
func (s *JSONSnapshotStore) LoadRoster() ([]*domain.HeroRecord, error) {
	var records []*domain.HeroRecord
	if err := s.readJSON(rosterFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRoster escribe el snapshot completo de forma atómica.
func (s *JSONSnapshotStore) SaveRoster(roster []*domain.HeroRecord) error {
	if roster == nil {
		roster = []*domain.HeroRecord{}
	}
	return s.writeJSON(rosterFile, roster)
}

// LoadAliases carga la tabla de aliases persistida.
func (s *JSONSnapshotStore) LoadAliases() ([]domain.AliasGroup, error) {
	var groups []domain.AliasGroup
	if err := s.readJSON(aliasesFile, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// SaveAliases escribe la tabla de aliases de forma atómica.
func (s *JSONSnapshotStore) SaveAliases(groups []domain.AliasGroup) error {
	if groups == nil {
		groups = []domain.AliasGroup{}
	}
	return s.writeJSON(aliasesFile, groups)
}

// LoadUnresolved carga la lista de trabajo de matches fallidos.
func (s *JSONSnapshotStore) LoadUnresolved() ([]domain.UnresolvedEntry, error) {
	var entries []domain.UnresolvedEntry
	if err := s.readJSON(unresolvedFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendUnresolved añade entradas nuevas a la lista de trabajo sin
// tocar las existentes. La deduplicación por Key se reaplica aquí por
// si dos runs concurrentes intentan añadir la misma entrada.
func (s *JSONSnapshotStore) AppendUnresolved(entries []domain.UnresolvedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.LoadUnresolved()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Key()] = true
	}

	appended := 0
	for _, e := range entries {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		existing = append(existing, e)
		appended++
	}

	if appended == 0 {
		return nil
	}
	s.logger.Debug("appending unresolved entries", "count", appended)
	return s.writeJSON(unresolvedFile, existing)
}

// readJSON lee y decodifica un archivo del snapshot. Inexistente = vacío.
func (s *JSONSnapshotStore) readJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read snapshot file %s", name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode snapshot file %s", name)
	}
	return nil
}

// writeJSON escribe un archivo del snapshot de forma atómica: volcado
// completo a un temporal en el mismo directorio y rename sobre el
// destino.
func (s *JSONSnapshotStore) writeJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", name)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "encode snapshot file %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close temp file for %s", name)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace snapshot file %s", name)
	}
	return nil
}
