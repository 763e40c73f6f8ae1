package repository

import (
	"context"
	"errors"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepository defines the interface for question data operations.
// currentUserID fills the computed Liked flag; pass 0 for anonymous readers.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question, tagNames []string) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Question, error)
	Count(ctx context.Context) (int64, error)
	ListHot(ctx context.Context, minLikes, limit, offset int, currentUserID uint) ([]*models.Question, error)
	CountHot(ctx context.Context, minLikes int) (int64, error)
	ListTagged(ctx context.Context, tagName string, firstMatchOnly bool, limit, offset int, currentUserID uint) ([]*models.Question, error)
	CountTagged(ctx context.Context, tagName string, firstMatchOnly bool) (int64, error)
	Like(ctx context.Context, userID, questionID uint) (bool, error)
}

type questionRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{
		db:      db,
		log:     observability.NewRepoLogger("questions"),
		metrics: observability.NewDatabaseMetrics("questions"),
	}
}

// Create stores the question and one tag row per name in a single transaction.
func (r *questionRepository) Create(ctx context.Context, question *models.Question, tagNames []string) error {
	defer r.metrics.TrackQuery("create")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(question).Error; err != nil {
			return err
		}
		if len(tagNames) == 0 {
			return nil
		}
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			tags = append(tags, models.Tag{TagName: name, QuestionID: question.ID})
		}
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
		question.Tags = tags
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "Question", question.Title)
	}
	if len(tagNames) > 0 {
		cache.InvalidateTags(ctx)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"question_id": question.ID, "tags": len(tagNames)})
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error) {
	defer r.metrics.TrackQuery("get_by_id")()

	var question models.Question
	fetch := func() error {
		return r.withRelations(r.applyQuestionDetails(reader(ctx, r.db), currentUserID)).
			First(&question, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, "question", cache.QuestionKey(id), &question, cache.QuestionTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.LogError(ctx, err, "get_by_id")
		}
		return nil, translate(err, "Question", id)
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	defer r.metrics.TrackQuery("list")()

	var questions []*models.Question
	err := r.page(r.withRelations(r.applyQuestionDetails(reader(ctx, r.db), currentUserID)), limit, offset).
		Find(&questions).Error
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := reader(ctx, r.db).Model(&models.Question{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// ListHot returns questions with at least minLikes likes, newest first.
// The like threshold is resolved by a single grouped subquery.
func (r *questionRepository) ListHot(ctx context.Context, minLikes, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	defer r.metrics.TrackQuery("list_hot")()
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "ListHot", "questions")
	defer span.End()
	span.SetAttributes(attribute.Int("hot.min_likes", minLikes))

	var questions []*models.Question
	base := r.applyQuestionDetails(reader(ctx, r.db), currentUserID)
	err := r.page(r.withRelations(hotFilter(base, minLikes)), limit, offset).
		Find(&questions).Error
	if err != nil {
		span.RecordError(err)
		r.log.LogError(ctx, err, "list_hot")
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) CountHot(ctx context.Context, minLikes int) (int64, error) {
	var n int64
	err := hotFilter(reader(ctx, r.db).Model(&models.Question{}), minLikes).Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// hotFilter keeps questions whose like count reaches minLikes. A threshold of
// zero or less admits every question, liked or not.
func hotFilter(db *gorm.DB, minLikes int) *gorm.DB {
	if minLikes <= 0 {
		return db
	}
	return db.Where("questions.id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Like{}).
			Select("question_id").
			Group("question_id").
			Having("COUNT(*) >= ?", minLikes),
	)
}

// ListTagged returns questions carrying tagName (case-sensitive). By default
// every question with a matching tag row is returned; firstMatchOnly narrows
// the result to the question linked through the oldest matching tag row.
func (r *questionRepository) ListTagged(ctx context.Context, tagName string, firstMatchOnly bool, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	defer r.metrics.TrackQuery("list_tagged")()

	var questions []*models.Question
	base := r.applyQuestionDetails(reader(ctx, r.db), currentUserID)
	err := r.page(r.withRelations(taggedFilter(base, tagName, firstMatchOnly)), limit, offset).
		Find(&questions).Error
	if err != nil {
		r.log.LogError(ctx, err, "list_tagged")
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) CountTagged(ctx context.Context, tagName string, firstMatchOnly bool) (int64, error) {
	var n int64
	err := taggedFilter(reader(ctx, r.db).Model(&models.Question{}), tagName, firstMatchOnly).Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func taggedFilter(db *gorm.DB, tagName string, firstMatchOnly bool) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Tag{}).
		Select("question_id").
		Where("tag_name = ?", tagName)
	if firstMatchOnly {
		sub = sub.Order("id ASC").Limit(1)
	}
	return db.Where("questions.id IN (?)", sub)
}

// Like records a like once per (user, question). It reports whether a new
// row was written.
func (r *questionRepository) Like(ctx context.Context, userID, questionID uint) (bool, error) {
	defer r.metrics.TrackQuery("like")()

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND question_id = ?", userID, questionID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return nil
		}
		if err := tx.Create(&models.Like{UserID: userID, QuestionID: questionID}).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "like")
		return false, translate(err, "Like", questionID)
	}
	if created {
		cache.InvalidateQuestion(ctx, questionID)
	}
	return created, nil
}

// applyQuestionDetails adds subqueries to fetch counts and liked status in a single query.
func (r *questionRepository) applyQuestionDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "questions.*, " +
		"(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) as answers_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.question_id = questions.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.question_id = questions.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *questionRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Author.Profile").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.id ASC")
	})
}

func (r *questionRepository) page(db *gorm.DB, limit, offset int) *gorm.DB {
	return db.Order("questions.created_at DESC").Order("questions.id DESC").Limit(limit).Offset(offset)
}
