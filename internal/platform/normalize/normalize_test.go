package normalize

import "testing"

func TestSearchKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Fjorm", "fjorm"},
		{"possessive ascii", "Naga's Voice", "naga s voice"},
		{"possessive curly upper", "NAGA’S VOICE", "naga s voice"},
		{"underscores and double space", "Naga_s  Voice", "naga s voice"},
		{"eth", "Seiðr", "seidr"},
		{"thorn", "Þjazi", "thjazi"},
		{"ash", "Æsir", "aesir"},
		{"o with stroke", "Jörmungandr Ørn", "jormungandr orn"},
		{"l with stroke", "Włod", "wlod"},
		{"accents", "Lumière", "lumiere"},
		{"punctuation only", "!!! --- ???", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchKey(tt.input)
			if got != tt.want {
				t.Errorf("SearchKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearchKeyEquivalence(t *testing.T) {
	// Variants of the same name must collapse to one key.
	variants := []string{"Naga's Voice", "NAGA’S VOICE", "Naga_s  Voice", "naga s-voice"}
	want := SearchKey(variants[0])
	for _, v := range variants[1:] {
		if got := SearchKey(v); got != want {
			t.Errorf("SearchKey(%q) = %q, want %q (same as %q)", v, got, want, variants[0])
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"title with hyphen", "Fjorm - New Traditions", "fjorm_new_traditions"},
		{"parentheses", "Tiki (Adult)", "tiki_adult"},
		{"accented epithet", "Lumière: Binding Shield", "lumiere_binding_shield"},
		{"leading trailing punct", "--Marth!--", "marth"},
		{"pure punctuation", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.input)
			if got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Fjorm - New Traditions",
		"NAGA’S VOICE",
		"Seiðr: Goddess of Hrís",
		"tiki_adult",
		"",
	}
	for _, in := range inputs {
		once := Slug(in)
		twice := Slug(once)
		if once != twice {
			t.Errorf("Slug not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"colon separator", "Fjorm: New Traditions", "Fjorm - New Traditions"},
		{"em dash", "Fjorm — New Traditions", "Fjorm - New Traditions"},
		{"en dash", "Fjorm – New Traditions", "Fjorm - New Traditions"},
		{"curly apostrophe", "Naga’s Voice", "Naga's Voice"},
		{"whitespace collapse", "  Fjorm    New\tTraditions ", "Fjorm New Traditions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayName(tt.input)
			if got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugFromDisplay(t *testing.T) {
	// Differently punctuated variants of the same title produce one slug.
	variants := []string{
		"Fjorm: New Traditions",
		"Fjorm — New Traditions",
		"Fjorm - New Traditions",
	}
	for _, v := range variants {
		if got := SlugFromDisplay(v); got != "fjorm_new_traditions" {
			t.Errorf("SlugFromDisplay(%q) = %q, want fjorm_new_traditions", v, got)
		}
	}
}

func TestIsEmptyKey(t *testing.T) {
	if !IsEmptyKey(Slug("!!!")) {
		t.Error("slug of pure punctuation should be an empty key")
	}
	if IsEmptyKey(Slug("Fjorm")) {
		t.Error("slug of a real name should not be an empty key")
	}
}
