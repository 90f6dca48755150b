// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// RunReport es la vista serializable de un run para archivado:
// metadatos, contadores y los no resueltos añadidos, sin los registros
// entrantes crudos.
type RunReport struct {
	ID            string                   `json:"id"`
	Incoming      int                      `json:"incoming"`
	Stats         domain.RunStats          `json:"stats"`
	NewUnresolved []domain.UnresolvedEntry `json:"new_unresolved,omitempty"`
	Metadata      domain.RunMetadata       `json:"metadata"`
	Warnings      []domain.Warning         `json:"warnings,omitempty"`
	Errors        []domain.Error           `json:"errors,omitempty"`
}

// BuildRunReport construye el informe desde un RunResult.
func BuildRunReport(result *domain.RunResult) RunReport {
	return RunReport{
		ID:            result.ID,
		Incoming:      len(result.Incoming),
		Stats:         result.Stats,
		NewUnresolved: result.NewUnresolved,
		Metadata:      result.Metadata,
		Warnings:      result.Warnings,
		Errors:        result.Errors,
	}
}

// WriteJSONReport escribe el informe del run como JSON con timestamp
// en el directorio dado. Retorna la ruta del archivo escrito.
func WriteJSONReport(dir string, result *domain.RunResult) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("reconcile_%s.json", timestamp)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildRunReport(result)); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	return path, nil
}

// WriteJSONStdout escribe el informe del run a stdout.
func WriteJSONStdout(result *domain.RunResult, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(BuildRunReport(result))
}
