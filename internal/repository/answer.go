package repository

import (
	"context"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, limit, offset int) ([]*models.Answer, error)
	CountByQuestion(ctx context.Context, questionID uint) (int64, error)
	SetCorrect(ctx context.Context, id uint, correct bool) error
}

type answerRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewAnswerRepository returns a new AnswerRepository implementation.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{
		db:      db,
		log:     observability.NewRepoLogger("answers"),
		metrics: observability.NewDatabaseMetrics("answers"),
	}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	defer r.metrics.TrackQuery("create")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(answer).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "Answer", answer.QuestionID)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	r.log.LogCreate(ctx, map[string]interface{}{"answer_id": answer.ID, "question_id": answer.QuestionID})
	return nil
}

// GetByID loads the answer with its question, so callers can check who asked it.
func (r *answerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Preload("Question").First(&answer, id).Error; err != nil {
		return nil, translate(err, "Answer", id)
	}
	return &answer, nil
}

// ListByQuestion returns correct answers first, then the oldest.
func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint, limit, offset int) ([]*models.Answer, error) {
	defer r.metrics.TrackQuery("list_by_question")()

	var answers []*models.Answer
	err := reader(ctx, r.db).
		Preload("Author").
		Preload("Author.Profile").
		Where("question_id = ?", questionID).
		Order("correct DESC").
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&answers).Error
	if err != nil {
		r.log.LogError(ctx, err, "list_by_question")
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

func (r *answerRepository) CountByQuestion(ctx context.Context, questionID uint) (int64, error) {
	var n int64
	if err := reader(ctx, r.db).Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *answerRepository) SetCorrect(ctx context.Context, id uint, correct bool) error {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Select("id", "question_id").First(&answer, id).Error; err != nil {
		return translate(err, "Answer", id)
	}
	if err := r.db.WithContext(ctx).Model(&models.Answer{}).Where("id = ?", id).Update("correct", correct).Error; err != nil {
		r.log.LogError(ctx, err, "set_correct")
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	r.log.LogUpdate(ctx, map[string]interface{}{"answer_id": id, "correct": correct})
	return nil
}
