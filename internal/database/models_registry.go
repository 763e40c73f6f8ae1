package database

import "askme/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Question{},
		&models.Answer{},
		&models.Tag{},
		&models.Like{},
	}
}
