package questions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/xuri/excelize/v2"
)

const bankJSON = `{
  "preguntas": [
    {"pregunta": "¿Qué es un proceso?", "respuesta": "Una instancia de un programa en ejecución"},
    {"pregunta": "  ", "respuesta": "sin pregunta"},
    {"pregunta": "¿Qué es un hilo?", "respuesta": " La unidad de planificación dentro de un proceso "}
  ]
}`

const bankYAML = `preguntas:
  - pregunta: ¿Qué es un proceso?
    respuesta: Una instancia de un programa en ejecución
  - pregunta: ¿Qué es un interbloqueo?
    respuesta: ""
  - pregunta: ¿Qué es un hilo?
    respuesta: La unidad de planificación dentro de un proceso
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func assertBank(t *testing.T, qs []models.Question) {
	t.Helper()
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2: %+v", len(qs), qs)
	}
	if qs[0].Prompt != "¿Qué es un proceso?" || qs[1].Prompt != "¿Qué es un hilo?" {
		t.Errorf("prompts = %q, %q", qs[0].Prompt, qs[1].Prompt)
	}
	if qs[1].OfficialAnswer != "La unidad de planificación dentro de un proceso" {
		t.Errorf("answer not trimmed: %q", qs[1].OfficialAnswer)
	}
	for i, q := range qs {
		if q.Position != i {
			t.Errorf("question %d has position %d", i, q.Position)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	qs, err := LoadJSON(strings.NewReader(bankJSON))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	assertBank(t, qs)
}

func TestLoadYAML(t *testing.T) {
	qs, err := LoadYAML(strings.NewReader(bankYAML))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	assertBank(t, qs)
}

func TestLoadExcel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"id", "Pregunta", "Respuesta"},
		{1, "¿Qué es un proceso?", "Una instancia de un programa en ejecución"},
		{2, "¿Qué es un semáforo?"},
		{3, "¿Qué es un hilo?", " La unidad de planificación dentro de un proceso "},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "preguntas.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	qs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	assertBank(t, qs)
}

func TestLoadExcel_MissingHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "question")
	f.SetCellValue(sheet, "B1", "answer")

	path := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	if _, err := LoadExcel(path); err == nil {
		t.Error("LoadExcel() should fail without pregunta/respuesta headers")
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{"JSON", "preguntas.json", bankJSON, false},
		{"YAML", "preguntas.yaml", bankYAML, false},
		{"YML", "preguntas.yml", bankYAML, false},
		{"Malformed JSON", "preguntas.json", `{"preguntas": [`, true},
		{"Unsupported extension", "preguntas.csv", "pregunta,respuesta", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := LoadFile(writeFile(t, tt.file, tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assertBank(t, qs)
			}
		})
	}
}

type fakeLister struct {
	questions []models.Question
	err       error
}

func (f fakeLister) ListQuestions(context.Context) ([]models.Question, error) {
	return f.questions, f.err
}

func TestLoad(t *testing.T) {
	stored := []models.Question{
		{Prompt: "¿Qué es un proceso?", OfficialAnswer: "Una instancia de un programa en ejecución"},
		{Prompt: "¿Qué es un hilo?", OfficialAnswer: "La unidad de planificación dentro de un proceso"},
	}

	tests := []struct {
		name   string
		source string
		path   string
		repo   Lister
		want   int
	}{
		{"File", config.SourceFile, writeFile(t, "preguntas.json", bankJSON), nil, 2},
		{"Missing file", config.SourceFile, filepath.Join(t.TempDir(), "missing.json"), nil, 0},
		{"Malformed file", config.SourceFile, writeFile(t, "bad.json", "not json"), nil, 0},
		{"Database", config.SourceDatabase, "", fakeLister{questions: stored}, 2},
		{"Database error", config.SourceDatabase, "", fakeLister{err: fmt.Errorf("connection refused")}, 0},
		{"Database without repository", config.SourceDatabase, "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := Load(context.Background(), tt.source, tt.path, tt.repo)
			if qs == nil {
				t.Fatal("Load() returned nil, want an empty bank on failure")
			}
			if len(qs) != tt.want {
				t.Errorf("Load() returned %d questions, want %d", len(qs), tt.want)
			}
		})
	}
}
