package models

// DefaultAvatar is the avatar assigned to profiles that never uploaded one.
const DefaultAvatar = "common_avatar.png"

// Profile holds per-user presentation data. Every user owns exactly one profile.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Avatar string `gorm:"size:255;not null;default:common_avatar.png" json:"avatar"`
}

// NewProfile returns the profile paired with a freshly created user.
func NewProfile(userID uint) *Profile {
	return &Profile{UserID: userID, Avatar: DefaultAvatar}
}
