package models

import (
	"strings"
	"time"
)

// Question is one entry of the quiz bank. It is immutable once loaded.
type Question struct {
	ID             uint      `gorm:"primaryKey" json:"-" yaml:"-"`
	Position       int       `gorm:"not null;index" json:"-" yaml:"-"`
	Prompt         string    `gorm:"type:text;not null" json:"pregunta" yaml:"pregunta"`
	OfficialAnswer string    `gorm:"type:text;not null" json:"respuesta" yaml:"respuesta"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-" yaml:"-"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// IsComplete reports whether both the prompt and the official answer carry text.
func (q Question) IsComplete() bool {
	return strings.TrimSpace(q.Prompt) != "" && strings.TrimSpace(q.OfficialAnswer) != ""
}

// QuestionBank is the on-disk shape of a question file.
type QuestionBank struct {
	Questions []Question `json:"preguntas" yaml:"preguntas"`
}
