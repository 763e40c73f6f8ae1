package repository

import (
	"context"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/observability"

	"gorm.io/gorm"
)

// DefaultTopTagsLimit is used when Top is called with a non-positive limit.
const DefaultTopTagsLimit = 20

// TagRepository exposes tag aggregations.
type TagRepository interface {
	Top(ctx context.Context, limit int) ([]models.TagCount, error)
}

type tagRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{
		db:      db,
		log:     observability.NewRepoLogger("tags"),
		metrics: observability.NewDatabaseMetrics("tags"),
	}
}

// Top returns the most used tag names with the number of distinct questions
// carrying each. Ties are broken by name.
func (r *tagRepository) Top(ctx context.Context, limit int) ([]models.TagCount, error) {
	if limit <= 0 {
		limit = DefaultTopTagsLimit
	}
	defer r.metrics.TrackQuery("top")()

	tags := []models.TagCount{}
	err := cache.Aside(ctx, "top_tags", cache.TopTagsKey(limit), &tags, cache.TopTagsTTL, func() error {
		return reader(ctx, r.db).
			Model(&models.Tag{}).
			Select("tag_name, COUNT(DISTINCT question_id) AS count").
			Group("tag_name").
			Order("COUNT(DISTINCT question_id) DESC").
			Order("tag_name ASC").
			Limit(limit).
			Scan(&tags).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "top")
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}
