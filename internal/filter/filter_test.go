package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  ¡Hola, Mundo!  ", "hola mundo"},
		{"¿Qué es un proceso?", "qué es un proceso"},
		{"Ejecución_1", "ejecución_1"},
		{"...!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilter_Check(t *testing.T) {
	f := New(DefaultConfig())

	tests := []struct {
		name  string
		input string
		want  Reason
	}{
		{"Empty", "", ReasonTooShort},
		{"Short filler", "no sé", ReasonTooShort},
		{"Repeated characters", "aaaaaa", ReasonTooShort},
		{"Short number", "1234567890", ReasonTooShort},
		{"Short vowels", "aeiouaeiou", ReasonTooShort},
		{"Short consonants", "bcdfgbcdfg", ReasonTooShort},
		{"Only punctuation", "¡¡¡!!!???...,,,;;;", ReasonTooShort},
		{"Fourteen characters", "abcdefghijklmn", ReasonTooShort},
		{"Embedded filler word", "la respuesta es pizza con queso", ReasonDenylistedToken},
		{"Embedded filler word uppercase", "PIZZA es mi respuesta final", ReasonDenylistedToken},
		{"Embedded filler with punctuation", "Bueno, creo que es un proceso", ReasonDenylistedToken},
		{"Single character spam", "aaaaaaa aaaaaaaaaaa", ReasonLowDiversity},
		{"Digits only", "1234 5678 1234 5678", ReasonNumeric},
		{"Vowels only", "aeiou aeiou aeiou", ReasonMonotonous},
		{"Consonants only", "bcdfg bcdfg bcdfg", ReasonMonotonous},
		{"Keyboard row", "qwertyuiop is my answer", ReasonKeyboardSequence},
		{"Keyboard row inside sentence", "mi respuesta es asdfghjkl total", ReasonKeyboardSequence},
		{"Digit row", "el numero es 1234567890 seguro", ReasonKeyboardSequence},
		{"Technical sentence", "A mutex guarantees mutual exclusion between threads", ReasonNone},
		{"Spanish answer", "Un proceso es una instancia de un programa en ejecución con su propio espacio de memoria", ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Check(tt.input)
			if got != tt.want {
				t.Errorf("Check(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if f.IsAdmissible(tt.input) != (tt.want == ReasonNone) {
				t.Errorf("IsAdmissible(%q) disagrees with Check", tt.input)
			}
		})
	}
}

func TestFilter_ShortTextAlwaysRejected(t *testing.T) {
	f := New(DefaultConfig())
	base := "Un proceso es una instancia"

	for n := 0; n < 15; n++ {
		input := base[:n]
		if f.IsAdmissible(input) {
			t.Errorf("IsAdmissible(%q) = true, want false for %d characters", input, n)
		}
	}
}

func TestFilter_EveryDefaultDenylistEntryRejected(t *testing.T) {
	f := New(DefaultConfig())
	for _, entry := range DefaultConfig().Denylist {
		if f.IsAdmissible(entry) {
			t.Errorf("IsAdmissible(%q) = true, want false", entry)
		}
	}
}

func TestFilter_CustomDenylistWholeMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Denylist = []string{"Respuesta de relleno total!"}
	f := New(cfg)

	if got := f.Check("respuesta de relleno total"); got != ReasonDenylisted {
		t.Errorf("Check() = %q, want %q", got, ReasonDenylisted)
	}
	// pizza is no longer denied with the replaced list
	if got := f.Check("la respuesta es pizza con queso"); got != ReasonNone {
		t.Errorf("Check() = %q, want admissible with custom list", got)
	}
}

func TestFilter_Deterministic(t *testing.T) {
	f := New(DefaultConfig())
	input := "Un semáforo es una variable entera protegida"
	first := f.Check(input)
	for i := 0; i < 10; i++ {
		if got := f.Check(input); got != first {
			t.Fatalf("Check() changed between calls: %q then %q", first, got)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filter.yml")
	payload := `min_length: 5
denylist:
  - "foo"
  - "bar baz"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MinLength != 5 {
		t.Errorf("MinLength = %d, want 5", cfg.MinLength)
	}
	if len(cfg.Denylist) != 2 {
		t.Errorf("Denylist = %v, want the two configured entries", cfg.Denylist)
	}
	if len(cfg.KeyboardSequences) != len(DefaultConfig().KeyboardSequences) {
		t.Errorf("KeyboardSequences should keep defaults, got %v", cfg.KeyboardSequences)
	}
	if cfg.MinDistinct != 4 {
		t.Errorf("MinDistinct = %d, want default 4", cfg.MinDistinct)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yml")
	if err := os.WriteFile(unknown, []byte("stopwords: [a]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	negative := filepath.Join(dir, "negative.yml")
	if err := os.WriteFile(negative, []byte("min_length: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"Missing file", filepath.Join(dir, "missing.yml"), "read filter config"},
		{"Unknown field", unknown, "parse filter config"},
		{"Negative length", negative, "min_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			if err == nil {
				t.Fatal("LoadConfig() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
