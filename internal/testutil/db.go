// Package testutil provides shared fixtures for tests that need a real schema.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"askme/internal/database"
	"askme/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated in-memory database with foreign keys enforced.
// The pool is pinned to one connection so every query sees the same memory DB.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with a profile. The password column holds a
// placeholder that never matches a bcrypt comparison.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "!",
		IsActive: true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if err := db.Create(models.NewProfile(u.ID)).Error; err != nil {
		t.Fatalf("create profile for %s: %v", username, err)
	}
	return u
}

// CreateUsers inserts n users named prefix0..prefix(n-1).
func CreateUsers(t testing.TB, db *gorm.DB, prefix string, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, CreateUser(t, db, fmt.Sprintf("%s%d", prefix, i)))
	}
	return users
}

// CreateQuestion inserts a question with the given tag names.
func CreateQuestion(t testing.TB, db *gorm.DB, author *models.User, title string, tags ...string) *models.Question {
	t.Helper()
	q := &models.Question{Title: title, Text: title + " body", AuthorID: author.ID}
	if err := db.Omit("Author", "Tags").Create(q).Error; err != nil {
		t.Fatalf("create question %q: %v", title, err)
	}
	for _, name := range tags {
		if err := db.Create(&models.Tag{TagName: name, QuestionID: q.ID}).Error; err != nil {
			t.Fatalf("tag %q: %v", name, err)
		}
	}
	return q
}

// AddLikes records one like on q from each of users.
func AddLikes(t testing.TB, db *gorm.DB, q *models.Question, users []*models.User) {
	t.Helper()
	for _, u := range users {
		if err := db.Create(&models.Like{UserID: u.ID, QuestionID: q.ID}).Error; err != nil {
			t.Fatalf("like: %v", err)
		}
	}
}

// AddAnswer inserts an answer to q.
func AddAnswer(t testing.TB, db *gorm.DB, q *models.Question, author *models.User, text string, correct bool) *models.Answer {
	t.Helper()
	a := &models.Answer{Text: text, Correct: correct, QuestionID: q.ID, AuthorID: author.ID}
	if err := db.Omit("Author", "Question").Create(a).Error; err != nil {
		t.Fatalf("answer: %v", err)
	}
	return a
}
