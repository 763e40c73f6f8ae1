package models

import (
	"strings"
	"time"
)

// User represents an account in the AskMe application.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Email       string     `gorm:"size:254;index" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	IsStaff     bool       `gorm:"not null;default:false" json:"is_staff"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	Profile     *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt   time.Time  `json:"date_joined"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
