// internal/sources/common/html_test.go
package common

import (
	"testing"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

const sampleHTML = `<html><body>
<div class="wrap outer">
  <p>first</p>
  <p class="hero-name">Fjorm</p>
  <script>var x = 1;</script>
  <a href="/archives/1001">link</a>
</div>
</body></html>`

func TestFindByClassAndText(t *testing.T) {
	doc, err := ParseHTML([]byte(sampleHTML))
	testutil.AssertNoError(t, err, "parse")

	node := FindByClass(doc, "hero-name")
	testutil.AssertNotNil(t, node, "node found")
	testutil.AssertEqual(t, Text(node), "Fjorm", "text content")

	testutil.AssertNil(t, FindByClass(doc, "missing"), "absent class")
	testutil.AssertTrue(t, HasClass(FindByClass(doc, "outer"), "wrap"), "multi-class attribute")
}

func TestFindAllAndAttr(t *testing.T) {
	doc, err := ParseHTML([]byte(sampleHTML))
	testutil.AssertNoError(t, err, "parse")

	anchors := FindAll(doc, "a")
	testutil.AssertEqual(t, len(anchors), 1, "one anchor")
	testutil.AssertEqual(t, Attr(anchors[0], "href"), "/archives/1001", "href attribute")
	testutil.AssertEqual(t, Attr(anchors[0], "missing"), "", "absent attribute")
}

func TestVisibleTextSkipsScripts(t *testing.T) {
	doc, err := ParseHTML([]byte(sampleHTML))
	testutil.AssertNoError(t, err, "parse")

	text := VisibleText(doc)
	testutil.AssertContains(t, text, "first", "paragraph text kept")
	testutil.AssertContains(t, text, "Fjorm", "second paragraph kept")
	testutil.AssertFalse(t, contains(text, "var x"), "script content dropped")
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"https://game8.co", "/archives/1", "https://game8.co/archives/1"},
		{"https://game8.co/games/", "archives/1", "https://game8.co/games/archives/1"},
		{"https://game8.co", "https://other.example/x", "https://other.example/x"},
	}
	for _, tc := range cases {
		got, err := JoinURL(tc.base, tc.ref)
		testutil.AssertNoError(t, err, tc.base+" + "+tc.ref)
		testutil.AssertEqual(t, got, tc.want, tc.base+" + "+tc.ref)
	}

	_, err := JoinURL("http://[::1]:namedport", "/x")
	testutil.AssertError(t, err, "broken base url")
}
