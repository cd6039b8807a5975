package service

import (
	"errors"
	"fmt"

	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationDenied   = errors.New("notification belongs to another user")
)

type NotificationService interface {
	GetNotifications(userID uint, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) error
	DeleteNotification(notificationID, userID uint) error
	GetSettings(userID uint) (*model.NotificationSettings, error)
	UpdateSettings(userID uint, claimNotification bool, watchedPlaces []string) (*model.NotificationSettings, error)

	// Lifecycle fan-out, called by the report service
	NotifyReportClaimed(report *model.Report) error
	NotifyClaimVerified(report *model.Report) error
	NotifyReportResolved(report *model.Report) error
	NotifyWatchers(report *model.Report) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetNotifications(
	userID uint,
	isRead *bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetNotifications(userID, isRead, limit, offset)
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.GetUnreadCount(userID)
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.findOwned(notificationID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		logger.Error("Failed to mark notification as read", err, map[string]interface{}{
			"notification_id": notificationID,
		})
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(notificationID, userID uint) error {
	if _, err := s.findOwned(notificationID, userID); err != nil {
		return err
	}
	return s.repo.DeleteNotification(notificationID)
}

func (s *notificationService) GetSettings(userID uint) (*model.NotificationSettings, error) {
	return s.repo.GetNotificationSettings(userID)
}

func (s *notificationService) UpdateSettings(
	userID uint,
	claimNotification bool,
	watchedPlaces []string,
) (*model.NotificationSettings, error) {
	settings, err := s.repo.GetNotificationSettings(userID)
	if err != nil {
		return nil, err
	}

	settings.ClaimNotification = claimNotification
	if watchedPlaces != nil {
		settings.WatchedPlaces = watchedPlaces
	}

	if err := s.repo.UpdateNotificationSettings(settings); err != nil {
		logger.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return settings, nil
}

// NotifyReportClaimed tells the reporter someone has claimed their item
func (s *notificationService) NotifyReportClaimed(report *model.Report) error {
	if report.ClaimerID == nil {
		return nil
	}

	settings, err := s.repo.GetNotificationSettings(report.ReporterID)
	if err == nil && !settings.ClaimNotification {
		return nil
	}

	notification := &model.Notification{
		UserID:          report.ReporterID,
		Type:            model.NotificationTypeReportClaimed,
		Title:           fmt.Sprintf("Someone claimed \"%s\"", report.Name),
		Content:         fmt.Sprintf("%s filed a claim. An administrator will verify the details.", report.ClaimerName),
		Link:            fmt.Sprintf("/reports/%d", report.ID),
		RelatedReportID: &report.ID,
	}
	return s.create(notification)
}

// NotifyClaimVerified tells the claimant their claim passed review
func (s *notificationService) NotifyClaimVerified(report *model.Report) error {
	if report.ClaimerID == nil {
		return nil
	}

	notification := &model.Notification{
		UserID:          *report.ClaimerID,
		Type:            model.NotificationTypeClaimVerified,
		Title:           fmt.Sprintf("Your claim on \"%s\" was verified", report.Name),
		Content:         "The administrator verified your claim. Await handover details.",
		Link:            fmt.Sprintf("/reports/%d", report.ID),
		RelatedReportID: &report.ID,
	}
	return s.create(notification)
}

// NotifyReportResolved tells the claimant the report was closed out
func (s *notificationService) NotifyReportResolved(report *model.Report) error {
	if report.ClaimerID == nil {
		return nil
	}

	notification := &model.Notification{
		UserID:          *report.ClaimerID,
		Type:            model.NotificationTypeReportResolved,
		Title:           fmt.Sprintf("\"%s\" was resolved", report.Name),
		Content:         "The report has been marked resolved and returned.",
		Link:            fmt.Sprintf("/reports/%d", report.ID),
		RelatedReportID: &report.ID,
	}
	return s.create(notification)
}

// NotifyWatchers alerts users watching the place a found item turned up at.
// The reporter is skipped; they already know.
func (s *notificationService) NotifyWatchers(report *model.Report) error {
	watcherIDs, err := s.repo.GetWatchersForPlace(report.Place)
	if err != nil {
		logger.Error("Failed to look up place watchers", err, map[string]interface{}{
			"place": report.Place,
		})
		return err
	}

	for _, watcherID := range watcherIDs {
		if watcherID == report.ReporterID {
			continue
		}

		notification := &model.Notification{
			UserID:          watcherID,
			Type:            model.NotificationTypeWatchedPlaceMatch,
			Title:           fmt.Sprintf("A found item was reported at %s", report.Place),
			Content:         report.Name,
			Link:            fmt.Sprintf("/reports/%d", report.ID),
			RelatedReportID: &report.ID,
		}
		if err := s.create(notification); err != nil {
			// Keep notifying the remaining watchers
			logger.Warn("Failed to create watcher notification", map[string]interface{}{
				"user_id":   watcherID,
				"report_id": report.ID,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func (s *notificationService) create(notification *model.Notification) error {
	if err := s.repo.CreateNotification(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": notification.UserID,
			"type":    notification.Type,
		})
		return err
	}

	logger.Debug("Notification created", map[string]interface{}{
		"notification_id": notification.ID,
		"user_id":         notification.UserID,
		"type":            notification.Type,
	})
	return nil
}

func (s *notificationService) findOwned(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotificationDenied
	}
	return notification, nil
}
