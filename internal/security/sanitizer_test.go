package security

import (
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"Trims whitespace", "  hola  ", 0, "hola"},
		{"Drops null bytes", "ho\x00la", 0, "hola"},
		{"Cuts on runes", "ñandú ñandú", 5, "ñandú"},
		{"Under limit", "proceso", 64, "proceso"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input, tt.maxRunes); got != tt.want {
				t.Errorf("SanitizeString(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		absent  []string
		present []string
	}{
		{
			name:    "Strips tags",
			input:   `<b>negrita</b><script>alert(1)</script>`,
			absent:  []string{"<b>", "<script>", "alert(1)"},
			present: []string{"negrita"},
		},
		{
			name:    "Escapes ampersand",
			input:   "memoria & CPU",
			absent:  []string{"& CPU"},
			present: []string{"memoria &amp; CPU"},
		},
		{
			name:    "Keeps accents",
			input:   "ejecución concurrente",
			present: []string{"ejecución concurrente"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.input)
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("SanitizeHTML(%q) = %q, should not contain %q", tt.input, got, s)
				}
			}
			for _, s := range tt.present {
				if !strings.Contains(got, s) {
					t.Errorf("SanitizeHTML(%q) = %q, should contain %q", tt.input, got, s)
				}
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	name := DisplayName("  <i>" + strings.Repeat("a", 100) + "</i>  ")
	if strings.Contains(name, "<i>") {
		t.Errorf("DisplayName() kept markup: %q", name)
	}
	if len(name) > MaxNameLength {
		t.Errorf("DisplayName() length = %d, want <= %d", len(name), MaxNameLength)
	}
}
