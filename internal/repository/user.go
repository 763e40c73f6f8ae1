package repository

import (
	"context"
	"errors"

	"askme/internal/cache"
	"askme/internal/models"
	"askme/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	TouchLastLogin(ctx context.Context, id uint) error
	SetStaff(ctx context.Context, id uint, staff bool) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:      db,
		log:     observability.NewRepoLogger("users"),
		metrics: observability.NewDatabaseMetrics("users"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_id")()

	var user models.User
	err := cache.Aside(ctx, "user", cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := reader(ctx, r.db).Preload("Profile").First(&user, id).Error; err != nil {
			return translate(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// findOne returns nil, nil when nothing matches.
func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	defer r.metrics.TrackQuery("find_one")()

	var user models.User
	if err := reader(ctx, r.db).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.LogError(ctx, err, "find_one")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Create inserts the user and its default profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("create")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile := models.NewProfile(user.ID)
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return translate(err, "User", user.Username)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"user_id": user.ID})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("update")()

	// the cached copy of a user carries no password hash, so it is never written here
	if err := r.db.WithContext(ctx).Omit(clause.Associations, "password").Save(user).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return translate(err, "User", user.ID)
	}
	cache.InvalidateUser(ctx, user.ID)
	r.log.LogUpdate(ctx, map[string]interface{}{"user_id": user.ID})
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	defer r.metrics.TrackQuery("update_profile")()

	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		r.log.LogError(ctx, err, "update_profile")
		return translate(err, "Profile", profile.ID)
	}
	cache.InvalidateUser(ctx, profile.UserID)
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", gorm.Expr("CURRENT_TIMESTAMP"))
	if res.Error != nil {
		return translate(res.Error, "User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// SetStaff grants or revokes staff status.
func (r *userRepository) SetStaff(ctx context.Context, id uint, staff bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_staff", staff)
	if res.Error != nil {
		return translate(res.Error, "User", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := reader(ctx, r.db).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
