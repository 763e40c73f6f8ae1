// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Question is a titled question asked by a user.
type Question struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:256;not null" json:"title"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Tags     []Tag  `gorm:"foreignKey:QuestionID" json:"tags,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// AnswersCount is not persisted; computed at query time
	AnswersCount int `gorm:"->;-:migration" json:"answers_count"`
	// Liked indicates whether the current requesting user liked this question (computed)
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagNames returns the names of the loaded tags in their stored order.
func (q *Question) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.TagName)
	}
	return names
}
