// internal/sources/gamepress/gamepress_test.go
package gamepress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/domain"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/core/ports"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/registry"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

const tierListHTML = `<!DOCTYPE html>
<html><body>
<table class="tier-list">
  <tr>
    <th>Hero</th><th>Tier</th><th>Weapon</th><th>Move</th><th>Book</th>
  </tr>
  <tr>
    <td class="hero-name"><a href="/archives/1001">Fjorm</a>
      <img src="/img/fjorm.png"></td>
    <td class="hero-tier">7</td>
    <td class="hero-weapon">Blue Lance</td>
    <td class="hero-move">Infantry</td>
    <td class="hero-tag">book-ii</td>
  </tr>
  <tr>
    <td class="hero-name"><a href="https://mirror.example/archives/2002">Tiki: Naga's Voice</a></td>
    <td class="hero-tier">9</td>
    <td class="hero-weapon">Red Breath</td>
    <td class="hero-move">Armored</td>
    <td class="hero-tag"></td>
  </tr>
  <tr>
    <td class="hero-name"><a href="/heroes/broken-link">Rowless Hero</a></td>
    <td class="hero-tier">3</td>
  </tr>
  <tr>
    <td class="hero-name"><a href="/archives/3003"></a></td>
  </tr>
</table>
</body></html>`

func newTestSource(t *testing.T, baseURL string) *TierList {
	t.Helper()
	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = baseURL
	src, err := New(cfg, registry.Deps{Logger: logx.NewSilent()})
	testutil.AssertNoError(t, err, "create source")
	return src
}

func TestParseTierListRows(t *testing.T) {
	src := newTestSource(t, "https://gamepress.gg")

	records, err := src.Parse([]byte(tierListHTML))
	testutil.AssertNoError(t, err, "parse")
	testutil.AssertEqual(t, len(records), 2, "rows without archive link or name are dropped")

	fjorm := records[0]
	testutil.AssertEqual(t, fjorm.Name, "Fjorm", "name")
	testutil.AssertEqual(t, fjorm.URL, "https://gamepress.gg/archives/1001", "relative href resolved")
	testutil.AssertEqual(t, fjorm.Source, "gamepress", "source tag")
	testutil.AssertEqual(t, fjorm.Attributes.WeaponType, "Blue Lance", "weapon")
	testutil.AssertEqual(t, fjorm.Attributes.MoveType, "Infantry", "move")
	testutil.AssertEqual(t, fjorm.Attributes.Tag, "book-ii", "tag")
	testutil.AssertEqual(t, fjorm.Attributes.ImageURL, "/img/fjorm.png", "image url")
	testutil.AssertNotNil(t, fjorm.Attributes.Tier, "tier present")
	testutil.AssertEqual(t, *fjorm.Attributes.Tier, 7, "tier value")
	testutil.AssertNotNil(t, fjorm.Attributes.ArchiveID, "archive id present")
	testutil.AssertEqual(t, *fjorm.Attributes.ArchiveID, 1001, "archive id parsed from url")

	tiki := records[1]
	testutil.AssertEqual(t, tiki.Name, "Tiki: Naga's Voice", "punctuated name kept raw")
	testutil.AssertEqual(t, tiki.URL, "https://mirror.example/archives/2002", "absolute href kept")
	testutil.AssertEqual(t, tiki.Attributes.Tag, "", "empty cell stays empty")
}

func TestParseEmptyPage(t *testing.T) {
	src := newTestSource(t, "https://gamepress.gg")

	records, err := src.Parse([]byte("<html><body><p>maintenance</p></body></html>"))
	testutil.AssertNoError(t, err, "parse")
	testutil.AssertEqual(t, len(records), 0, "no rows, no records")
}

func TestFetchAgainstTestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fire-emblem-heroes/tier-list" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(tierListHTML))
	}))
	defer srv.Close()

	src := newTestSource(t, srv.URL)

	records, err := src.Fetch(context.Background())
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, len(records), 2, "records from server")
	testutil.AssertEqual(t, records[0].URL, srv.URL+"/archives/1001", "href resolved against server base")
}

func TestFetchPropagatesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = srv.URL
	cfg.Retries = 0
	cfg.Timeout = 2 * time.Second
	src, err := New(cfg, registry.Deps{Logger: logx.NewSilent()})
	testutil.AssertNoError(t, err, "create source")

	_, err = src.Fetch(context.Background())
	testutil.AssertError(t, err, "missing page is an error")
}

func TestCustomTierListPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/custom/list" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(tierListHTML))
	}))
	defer srv.Close()

	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = srv.URL
	cfg.Custom = map[string]interface{}{"tier_list_path": "/custom/list"}
	src, err := New(cfg, registry.Deps{Logger: logx.NewSilent()})
	testutil.AssertNoError(t, err, "create source")

	records, err := src.Fetch(context.Background())
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, len(records), 2, "custom path served")
}

func TestRefreshFlagPropagates(t *testing.T) {
	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = "https://gamepress.gg"
	cfg.Refresh = true
	src, err := New(cfg, registry.Deps{Logger: logx.NewSilent()})
	testutil.AssertNoError(t, err, "create source")

	records, err := src.Parse([]byte(tierListHTML))
	testutil.AssertNoError(t, err, "parse")
	for _, rec := range records {
		testutil.AssertTrue(t, rec.Refresh, "refresh pass marks every record")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = ""
	_, err := New(cfg, registry.Deps{Logger: logx.NewSilent()})
	testutil.AssertError(t, err, "base url required")
}

func TestSourceIdentity(t *testing.T) {
	src := newTestSource(t, "https://gamepress.gg")
	testutil.AssertEqual(t, src.Name(), "gamepress", "name")
	testutil.AssertEqual(t, src.Role(), domain.SourceRolePrimary, "role")
	testutil.AssertEqual(t, src.Type(), domain.SourceTypeHTML, "type")
	testutil.AssertNoError(t, src.Close(), "close")
}
