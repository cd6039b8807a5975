package repository

import (
	"github.com/sjoh/foundly-backend/internal/app/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	// Notification operations
	CreateNotification(notification *model.Notification) error
	GetNotificationByID(id uint) (*model.Notification, error)
	GetNotifications(userID uint, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(userID uint) error
	DeleteNotification(id uint) error

	// NotificationSettings operations
	GetNotificationSettings(userID uint) (*model.NotificationSettings, error)
	CreateNotificationSettings(settings *model.NotificationSettings) error
	UpdateNotificationSettings(settings *model.NotificationSettings) error

	// GetWatchersForPlace returns user ids whose watched places include
	// the given place.
	GetWatchersForPlace(place string) ([]uint, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) GetNotificationByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) GetNotifications(
	userID uint,
	isRead *bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)

	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(userID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) DeleteNotification(id uint) error {
	return r.db.Delete(&model.Notification{}, id).Error
}

func (r *notificationRepository) GetNotificationSettings(userID uint) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		// No settings yet, create defaults
		settings = model.NotificationSettings{
			UserID:            userID,
			ClaimNotification: true,
			WatchedPlaces:     []string{},
		}
		if err := r.CreateNotificationSettings(&settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *notificationRepository) CreateNotificationSettings(settings *model.NotificationSettings) error {
	return r.db.Create(settings).Error
}

func (r *notificationRepository) UpdateNotificationSettings(settings *model.NotificationSettings) error {
	return r.db.Save(settings).Error
}

func (r *notificationRepository) GetWatchersForPlace(place string) ([]uint, error) {
	var userIDs []uint
	err := r.db.Model(&model.NotificationSettings{}).
		Where("claim_notification = ?", true).
		Where("? = ANY(watched_places)", place).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
