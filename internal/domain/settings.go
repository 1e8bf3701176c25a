package domain

// UserSettings stores per-user UI preferences. Created lazily with defaults
// on first read.
type UserSettings struct {
	ID                   uint   `gorm:"primaryKey" json:"-"`
	UserID               uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Theme                string `gorm:"size:20;default:light" json:"theme"`
	NotificationsEnabled bool   `gorm:"default:true" json:"notificationsEnabled"`
	Locale               string `gorm:"size:20" json:"locale,omitempty"`
}

// DefaultSettings returns the preference defaults for a user.
func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:               userID,
		Theme:                "light",
		NotificationsEnabled: true,
	}
}
