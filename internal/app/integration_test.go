package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/internal/app/controller"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/internal/app/service"
	"github.com/sjoh/foundly-backend/internal/db"
	"github.com/sjoh/foundly-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	Blacklist *recordingBlacklist
}

// recordingBlacklist captures token revocations instead of hitting redis
type recordingBlacklist struct {
	revoked map[string]time.Duration
}

func (b *recordingBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	b.revoked[token] = ttl
	return nil
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	reportRepo := repository.NewReportRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	jwtConfig := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}

	authService := service.NewAuthService(
		userRepo,
		jwtConfig.Secret,
		jwtConfig.AccessTokenExpiry,
		jwtConfig.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(notificationRepo)
	reportService := service.NewReportService(reportRepo, notificationService)

	blacklist := &recordingBlacklist{revoked: map[string]time.Duration{}}
	authController := controller.NewAuthController(authService, jwtConfig, blacklist)
	reportController := controller.NewReportController(reportService, authService)
	notificationController := controller.NewNotificationController(notificationService)

	authMiddleware := middleware.NewAuthMiddleware(jwtConfig.Secret)

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authMiddleware.OptionalAuthenticate(), authController.Logout)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	reports := router.Group("/api/v1/reports")
	{
		reports.GET("", reportController.ListReports)
		reports.GET("/counts", reportController.GetCounts)
		reports.GET("/mine", authMiddleware.Authenticate(), reportController.GetMyReports)
		reports.GET("/:id", reportController.GetReport)
		reports.POST("", authMiddleware.Authenticate(), reportController.CreateReport)
		reports.POST("/:id/claim", authMiddleware.Authenticate(), reportController.ClaimReport)
	}

	notifications := router.Group("/api/v1/notifications")
	notifications.Use(authMiddleware.Authenticate())
	{
		notifications.GET("", notificationController.GetNotifications)
		notifications.GET("/unread-count", notificationController.GetUnreadCount)
		notifications.PATCH("/:id/read", notificationController.MarkAsRead)
	}

	return &TestServer{
		Router:    router,
		DB:        testDB,
		Blacklist: blacklist,
	}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) registerUser(t *testing.T, email, name string) string {
	t.Helper()

	w := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	tokens := resp["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

func TestLostAndFoundJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. The finder turns in a wallet at the front desk
	t.Log("Step 1: Register finder and file a found report")
	finderToken := ts.registerUser(t, "finder@example.com", "Finder")

	w := ts.do(t, "POST", "/api/v1/reports", finderToken, map[string]string{
		"type":        "found",
		"name":        "Black Wallet",
		"description": "Leather wallet found near the entrance",
		"place":       "Main Lobby",
		"contact":     "front-desk@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	report := createResp["report"].(map[string]interface{})
	reportID := report["id"].(float64)
	assert.Equal(t, "unclaimed", report["status"])
	assert.Equal(t, false, report["claimed"])

	// 2. Anyone can browse the feed without signing in
	t.Log("Step 2: Browse the public feed")
	w = ts.do(t, "GET", "/api/v1/reports", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, float64(1), listResp["count"])

	// 3. The finder cannot claim their own found item
	t.Log("Step 3: Self-claim is rejected")
	claimPayload := map[string]interface{}{
		"answers": map[string]string{
			"color":    "black",
			"marking":  "initials J.K.",
			"contents": "two cards and a photo",
		},
	}
	w = ts.do(t, "POST", "/api/v1/reports/1/claim", finderToken, claimPayload)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CLAIM_SELF_CLAIM")

	// 4. The owner signs up and claims with verification answers
	t.Log("Step 4: Owner claims the wallet")
	ownerToken := ts.registerUser(t, "owner@example.com", "Owner")

	w = ts.do(t, "POST", "/api/v1/reports/1/claim", ownerToken, claimPayload)
	require.Equal(t, http.StatusOK, w.Code)

	var claimResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claimResp))
	claimed := claimResp["report"].(map[string]interface{})
	assert.Equal(t, "pending_verification", claimed["status"])
	assert.Equal(t, true, claimed["claimed"])
	assert.NotEmpty(t, claimed["claim_reference"])

	// Public payloads never carry the verification answers
	_, hasAnswers := claimed["answers"]
	assert.False(t, hasAnswers)

	// 5. A latecomer cannot claim the same item
	t.Log("Step 5: Second claim is rejected")
	lateToken := ts.registerUser(t, "late@example.com", "Latecomer")

	w = ts.do(t, "POST", "/api/v1/reports/1/claim", lateToken, claimPayload)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CLAIM_INVALID_STATE")

	// 6. Claiming without answers is rejected
	t.Log("Step 6: Claim without answers is rejected")
	w = ts.do(t, "POST", "/api/v1/reports/1/claim", lateToken, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 7. The finder sees the claim notification
	t.Log("Step 7: Finder is notified of the claim")
	w = ts.do(t, "GET", "/api/v1/notifications/unread-count", finderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var countResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Equal(t, float64(1), countResp["unread_count"])

	w = ts.do(t, "GET", "/api/v1/notifications", finderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notifResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifResp))
	notifications := notifResp["notifications"].([]interface{})
	require.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, "report_claimed", first["type"])

	w = ts.do(t, "PATCH", "/api/v1/notifications/1/read", finderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 8. The finder's own reports list
	t.Log("Step 8: Finder lists their reports")
	w = ts.do(t, "GET", "/api/v1/reports/mine", finderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mineResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mineResp))
	assert.Equal(t, float64(1), mineResp["count"])

	w = ts.do(t, "GET", "/api/v1/reports/mine", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mineResp))
	assert.Equal(t, float64(0), mineResp["count"])

	// 9. Status counts reflect the claim
	t.Log("Step 9: Counts endpoint")
	w = ts.do(t, "GET", "/api/v1/reports/counts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var counts map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	statusCounts := counts["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), statusCounts["total"])
	assert.Equal(t, float64(1), statusCounts["pending_verification"])
	assert.Equal(t, float64(0), statusCounts["unclaimed"])

	// 10. Single report fetch shows the claim state
	t.Log("Step 10: Fetch the report")
	w = ts.do(t, "GET", "/api/v1/reports/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var getResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &getResp))
	fetched := getResp["report"].(map[string]interface{})
	assert.Equal(t, "Pending Verification", fetched["status_label"])
	assert.Equal(t, reportID, fetched["id"])
}

func TestReportEndpointValidation(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	token := ts.registerUser(t, "user@example.com", "User")

	t.Run("create requires auth", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/reports", "", map[string]string{
			"type": "found",
			"name": "Keys",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid type", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/reports", token, map[string]string{
			"type":        "stolen",
			"name":        "Keys",
			"description": "A keyring",
			"place":       "Gym",
			"contact":     "user@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "REPORT_INVALID_TYPE")
	})

	t.Run("missing fields", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/reports", token, map[string]string{
			"type": "found",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad report id", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/reports/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
	})

	t.Run("missing report", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/reports/999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "REPORT_NOT_FOUND")
	})
}

func TestLogoutBlacklistsRemainingLifetime(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	w := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
		"name":     "User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	tokens := resp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)
	refreshToken := tokens["refresh_token"].(string)

	w = ts.do(t, "POST", "/api/v1/auth/logout", accessToken, map[string]string{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Both tokens are blacklisted for their remaining lifetime, not the
	// full configured expiry
	require.Len(t, ts.Blacklist.revoked, 2)

	accessTTL := ts.Blacklist.revoked[accessToken]
	assert.Greater(t, accessTTL, 14*time.Minute)
	assert.LessOrEqual(t, accessTTL, 15*time.Minute)

	refreshTTL := ts.Blacklist.revoked[refreshToken]
	assert.Greater(t, refreshTTL, 7*24*time.Hour-time.Minute)
	assert.LessOrEqual(t, refreshTTL, 7*24*time.Hour)
}

func TestLogoutIgnoresUnusableTokens(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// Logout always reports success; a garbage refresh token is simply
	// never blacklisted
	w := ts.do(t, "POST", "/api/v1/auth/logout", "", map[string]string{
		"refresh_token": "not.a.token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.Blacklist.revoked)
}
