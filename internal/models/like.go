package models

import "time"

// Like represents a user's like on a question.
// Uniqueness of (UserID, QuestionID) is enforced by the write path, not the schema,
// so bulk-generated datasets may opt into duplicates.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_like_user_question" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionID uint      `gorm:"not null;index;index:idx_like_user_question" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
