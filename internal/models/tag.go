package models

// MaxTagNameLen is the storage limit of a tag name, in runes.
const MaxTagNameLen = 20

// Tag associates a tag name with one question. The same name appears once per
// tagged question.
type Tag struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	TagName    string    `gorm:"size:20;not null;index" json:"tag_name"`
	QuestionID uint      `gorm:"not null;index" json:"-"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TagCount is one row of the popular-tags aggregation.
type TagCount struct {
	TagName string `json:"tag_name"`
	Count   int64  `json:"count"`
}
