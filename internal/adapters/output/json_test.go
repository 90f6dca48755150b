package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

func sampleResult() *domain.RunResult {
	result := domain.NewRunResult()
	result.AddIncoming(
		domain.IncomingRecord{Name: "Fjorm", URL: "https://game8.co/archives/1001", Source: "gamepress"},
		domain.IncomingRecord{Name: "Marth", Source: "fandom"},
	)
	result.Stats.Created = 1
	result.Stats.Unresolved = 1
	result.NewUnresolved = []domain.UnresolvedEntry{
		{SourceName: "Marth", SourceSlugGuess: "marth", Reason: "no match"},
	}
	result.AddWarning("fandom", "something odd")
	result.Finalize()
	return result
}

func TestBuildRunReport(t *testing.T) {
	result := sampleResult()
	report := BuildRunReport(result)

	testutil.AssertEqual(t, report.ID, result.ID, "id")
	testutil.AssertEqual(t, report.Incoming, 2, "incoming is a count, not the raw records")
	testutil.AssertEqual(t, report.Stats.Created, 1, "stats carried over")
	testutil.AssertEqual(t, len(report.NewUnresolved), 1, "unresolved carried over")
	testutil.AssertEqual(t, len(report.Warnings), 1, "warnings carried over")
}

func TestWriteJSONReport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSONReport(dir, sampleResult())
	testutil.AssertNoError(t, err, "write report")
	testutil.AssertTrue(t, strings.HasPrefix(filepath.Base(path), "reconcile_"), "filename prefix")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read report")

	var report RunReport
	testutil.AssertNoError(t, json.Unmarshal(data, &report), "report is valid json")
	testutil.AssertEqual(t, report.Incoming, 2, "incoming count survives the round trip")
	testutil.AssertEqual(t, report.NewUnresolved[0].SourceName, "Marth", "unresolved entry survives")
}

func TestWriteJSONReportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	_, err := WriteJSONReport(dir, sampleResult())
	testutil.AssertNoError(t, err, "write into missing directory")

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err, "read dir")
	testutil.AssertEqual(t, len(entries), 1, "one report written")
}
