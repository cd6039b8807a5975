package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeReportClaimed     NotificationType = "report_claimed"
	NotificationTypeClaimVerified     NotificationType = "claim_verified"
	NotificationTypeReportResolved    NotificationType = "report_resolved"
	NotificationTypeWatchedPlaceMatch NotificationType = "watched_place_match"
)

type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Recipient
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text;not null" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	RelatedReportID *uint `gorm:"index" json:"related_report_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings holds per-user notification preferences.
// WatchedPlaces lets a user be alerted when a found item is reported at
// a place they care about (e.g. ["Library", "Student Center"]).
type NotificationSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ClaimNotification bool           `gorm:"default:true" json:"claim_notification"`
	WatchedPlaces     pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"watched_places"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}
