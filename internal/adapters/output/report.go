// internal/adapters/output/report.go
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
)

// PTermPresenter implementa el Presenter del pipeline usando pterm:
// header de arranque, una línea por fuente y el informe final con los
// contadores de la reconciliación y una muestra de no resueltos.
type PTermPresenter struct {
	mu      sync.Mutex
	started time.Time
}

// NewPTermPresenter crea el presenter de terminal.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// RunStarted muestra el header del run y las fuentes que participan.
func (p *PTermPresenter) RunStarted(sources []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Barracks - Hero Reconciliation")

	pterm.Println()
	for _, name := range sources {
		pterm.Printf("  %s %s\n", pterm.Gray("•"), pterm.Cyan(name))
	}
	pterm.Println()
}

// SourceFinished muestra el resultado de una fuente.
func (p *PTermPresenter) SourceFinished(name string, records int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		pterm.Warning.Printf("%s failed: %v\n", name, err)
		return
	}
	pterm.Success.Printf("%s: %s records\n", name, pterm.Cyan(fmt.Sprintf("%d", records)))
}

// Report muestra el informe final del run.
func (p *PTermPresenter) Report(result *domain.RunResult, unresolvedSample []domain.UnresolvedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println()
	pterm.DefaultSection.Println("Reconciliation Summary")

	statsPanel := pterm.DefaultBox.
		WithTitle("Run Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("Duration: %s\n", pterm.Green(formatDuration(result.Metadata.Duration)))
	content += fmt.Sprintf("Incoming: %s\n", pterm.Cyan(fmt.Sprintf("%d", len(result.Incoming))))
	content += fmt.Sprintf("Created: %s\n", pterm.Green(fmt.Sprintf("%d", result.Stats.Created)))
	content += fmt.Sprintf("Updated (url): %s\n", pterm.Cyan(fmt.Sprintf("%d", result.Stats.UpdatedByURL)))
	content += fmt.Sprintf("Updated (slug): %s\n", pterm.Cyan(fmt.Sprintf("%d", result.Stats.UpdatedBySlug)))
	content += fmt.Sprintf("Aliases added: %s\n", pterm.Magenta(fmt.Sprintf("%d", result.Stats.AliasesAdded)))
	if result.Stats.Rejected > 0 {
		content += fmt.Sprintf("Rejected: %s\n", pterm.Red(fmt.Sprintf("%d", result.Stats.Rejected)))
	}
	if result.Stats.Skipped > 0 {
		content += fmt.Sprintf("Skipped: %s\n", pterm.Yellow(fmt.Sprintf("%d", result.Stats.Skipped)))
	}
	content += fmt.Sprintf("Unresolved: %s", pterm.Yellow(fmt.Sprintf("%d", result.Stats.Unresolved)))

	statsPanel.Println(content)

	if len(unresolvedSample) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Unresolved Names (sample)")

		tableData := pterm.TableData{{"Name", "Slug Guess", "Reason"}}
		for _, u := range unresolvedSample {
			tableData = append(tableData, []string{u.SourceName, u.SourceSlugGuess, u.Reason})
		}

		pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(tableData).
			Render()
	}

	if len(result.Warnings) > 0 {
		pterm.Println()
		pterm.Warning.Printf("Warnings (%d):\n", len(result.Warnings))
		for i, w := range result.Warnings {
			pterm.Printf("  %d. [%s] %s\n", i+1, w.Source, w.Message)
		}
	}

	if len(result.Errors) > 0 {
		pterm.Println()
		pterm.Error.Printf("Errors (%d):\n", len(result.Errors))
		for i, e := range result.Errors {
			fatal := ""
			if e.Fatal {
				fatal = " (FATAL)"
			}
			pterm.Printf("  %d. [%s] %s%s\n", i+1, e.Source, e.Message, fatal)
		}
	}

	pterm.Println()
}

// formatDuration formatea una duración de manera legible.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
