// Package questions loads the quiz bank from a file or from Postgres.
package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Lister is the read side of the question repository.
type Lister interface {
	ListQuestions(ctx context.Context) ([]models.Question, error)
}

// LoadFile reads a question bank, picking the format from the file extension:
// .json, .yaml/.yml or .xlsx.
func LoadFile(path string) ([]models.Question, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadExcel(path)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question file: %w", err)
		}
		return LoadYAML(bytes.NewReader(data))
	case ".json", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question file: %w", err)
		}
		return LoadJSON(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported question file %q", path)
	}
}

// LoadJSON decodes {"preguntas": [{"pregunta": ..., "respuesta": ...}]}.
func LoadJSON(r io.Reader) ([]models.Question, error) {
	var bank models.QuestionBank
	if err := json.NewDecoder(r).Decode(&bank); err != nil {
		return nil, fmt.Errorf("parse question json: %w", err)
	}
	return normalize(bank.Questions), nil
}

// LoadYAML decodes the same shape as LoadJSON, written as YAML.
func LoadYAML(r io.Reader) ([]models.Question, error) {
	var bank models.QuestionBank
	if err := yaml.NewDecoder(r).Decode(&bank); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse question yaml: %w", err)
	}
	return normalize(bank.Questions), nil
}

// LoadExcel reads the first sheet of a workbook. The header row must name a
// "pregunta" and a "respuesta" column; other columns are ignored.
func LoadExcel(path string) ([]models.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %q has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	promptCol, answerCol := -1, -1
	for i, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "pregunta":
			promptCol = i
		case "respuesta":
			answerCol = i
		}
	}
	if promptCol < 0 || answerCol < 0 {
		return nil, fmt.Errorf("sheet %q needs pregunta and respuesta header columns", sheets[0])
	}

	var qs []models.Question
	for i, row := range rows[1:] {
		if promptCol >= len(row) || answerCol >= len(row) {
			logger.Debug("Skipping short spreadsheet row", "row", i+2)
			continue
		}
		qs = append(qs, models.Question{Prompt: row[promptCol], OfficialAnswer: row[answerCol]})
	}
	return normalize(qs), nil
}

// Load returns the bank for the configured source. Any failure is logged and
// yields an empty bank, leaving the quiz with nothing to show.
func Load(ctx context.Context, source, path string, repo Lister) []models.Question {
	var (
		qs  []models.Question
		err error
	)

	switch source {
	case config.SourceDatabase:
		if repo == nil {
			err = fmt.Errorf("no question repository configured")
			break
		}
		qs, err = repo.ListQuestions(ctx)
		qs = normalize(qs)
	default:
		qs, err = LoadFile(path)
	}

	if err != nil {
		logger.Error("Failed to load questions", "source", source, "path", path, "error", err)
		return []models.Question{}
	}

	logger.Info("Questions loaded", "source", source, "count", len(qs))
	return qs
}

// normalize trims text, drops incomplete entries and numbers the rest.
func normalize(in []models.Question) []models.Question {
	out := make([]models.Question, 0, len(in))
	for i, q := range in {
		q.Prompt = strings.TrimSpace(q.Prompt)
		q.OfficialAnswer = strings.TrimSpace(q.OfficialAnswer)
		if !q.IsComplete() {
			logger.Warn("Skipping incomplete question", "index", i)
			continue
		}
		q.Position = len(out)
		out = append(out, q)
	}
	return out
}
