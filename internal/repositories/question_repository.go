package repositories

import (
	"context"

	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListQuestions returns the whole bank in quiz order.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.WithContext(ctx).
		Order("position ASC").
		Order("id ASC").
		Find(&questions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list questions")
	}

	return questions, nil
}

// CountQuestions returns the number of stored questions.
func (r *QuestionRepository) CountQuestions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count questions")
	}
	return count, nil
}

// ReplaceAll swaps the stored bank for questions in a single transaction.
// Positions are reassigned from the slice order.
func (r *QuestionRepository) ReplaceAll(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return errors.New(errors.ErrCodeValidation, "refusing to replace the bank with no questions")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Question{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear questions")
		}

		rows := make([]models.Question, len(questions))
		for i, q := range questions {
			rows[i] = models.Question{
				Position:       i,
				Prompt:         q.Prompt,
				OfficialAnswer: q.OfficialAnswer,
			}
		}

		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to insert questions")
		}
		return nil
	})
}
