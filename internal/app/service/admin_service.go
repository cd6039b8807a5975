package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/pkg/logger"
	"github.com/sjoh/foundly-backend/pkg/util"
)

var ErrInvalidAdminCredentials = errors.New("invalid admin credentials")

// AdminService implements the shared-secret administrator gate. Passing
// the gate yields an opaque session token; nothing below the gate checks
// admin identity again.
type AdminService interface {
	Login(ctx context.Context, username, password string) (string, time.Duration, error)
	Logout(ctx context.Context, token string) error
	IsSessionActive(ctx context.Context, token string) (bool, error)
}

type adminService struct {
	cfg      config.AdminConfig
	sessions SessionStore
}

func NewAdminService(cfg config.AdminConfig, sessions SessionStore) AdminService {
	return &adminService{
		cfg:      cfg,
		sessions: sessions,
	}
}

func (s *adminService) Login(ctx context.Context, username, password string) (string, time.Duration, error) {
	usernameOK := util.SecureCompare(username, s.cfg.Username)
	passwordOK := util.SecureCompare(password, s.cfg.Password)
	if !usernameOK || !passwordOK {
		logger.Warn("Admin login failed: bad credentials", map[string]interface{}{
			"username": username,
		})
		return "", 0, ErrInvalidAdminCredentials
	}

	token := uuid.New().String()
	if err := s.sessions.Store(ctx, token, s.cfg.SessionExpiry); err != nil {
		logger.Error("Failed to store admin session", err, nil)
		return "", 0, err
	}

	logger.Info("Admin session opened", map[string]interface{}{
		"expiry": s.cfg.SessionExpiry.String(),
	})
	return token, s.cfg.SessionExpiry, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		logger.Error("Failed to revoke admin session", err, nil)
		return err
	}
	logger.Info("Admin session closed", nil)
	return nil
}

func (s *adminService) IsSessionActive(ctx context.Context, token string) (bool, error) {
	return s.sessions.IsActive(ctx, token)
}
