package filter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the word-lists and thresholds the filter runs with.
type Config struct {
	MinLength         int      `yaml:"min_length"`
	MinDistinct       int      `yaml:"min_distinct"`
	Vowels            string   `yaml:"vowels"`
	Consonants        string   `yaml:"consonants"`
	Denylist          []string `yaml:"denylist"`
	KeyboardSequences []string `yaml:"keyboard_sequences"`
}

// DefaultConfig returns the Spanish word-lists the bot ships with.
func DefaultConfig() Config {
	return Config{
		MinLength:   15,
		MinDistinct: 4,
		Vowels:      "aeiou",
		Consonants:  "bcdfghjklmnpqrstvwxyz",
		Denylist: []string{
			"", "no", "si", "nose", "no se", "nada", "nose que", "no sé",
			"caranada", "cualquier cosa", "no idea", "ni idea", "asdasd", "qwerty",
			"test", "prueba", "hola", "chau", "xd", "jaja", "jeje", "jacaranda",
			"banana", "pizza", "futbol", "perro", "gato", "auto", "casa", "mesa",
			"silla", "agua", "fuego", "tierra", "aire", "lorem ipsum", "blablabla",
			"lalala", "nanana", "jejeje", "jajaja", "aaaaaa", "bbbbbb", "cccccc",
			"dddddd", "eeeeee", "ffffff", "abcdef", "asdfgh", "zxcvbn",
			"mnbvcx", "poiuyt", "random", "aleatorio", "whatever", "meh", "ok",
			"vale", "bueno", "malo", "regular", "normal", "raro", "extraño",
			"loco", "genial", "excelente", "terrible", "horrible", "perfecto",
			"imperfecto",
		},
		KeyboardSequences: []string{
			"qwertyuiop", "asdfghjkl", "zxcvbnm", "qazwsxedc", "rfvtgbyhn",
			"ujmyhnbgt", "plokijnuhb", "mnbvcxz", "1234567890", "0987654321",
		},
	}
}

// LoadConfig reads a YAML (or JSON) file on top of DefaultConfig.
// Lists present in the file replace the default lists entirely.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read filter config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse filter config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MinLength < 0 {
		return fmt.Errorf("min_length must not be negative")
	}
	if c.MinDistinct < 0 {
		return fmt.Errorf("min_distinct must not be negative")
	}
	if c.Vowels == "" || c.Consonants == "" {
		return fmt.Errorf("vowels and consonants must not be empty")
	}
	return nil
}
