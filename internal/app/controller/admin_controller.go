package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/service"
	apperrors "github.com/sjoh/foundly-backend/internal/errors"
	"github.com/sjoh/foundly-backend/internal/middleware"
	appRedis "github.com/sjoh/foundly-backend/pkg/redis"
)

type AdminController struct {
	adminService  service.AdminService
	reportService service.ReportService
	exportService service.ExportService
}

func NewAdminController(
	adminService service.AdminService,
	reportService service.ReportService,
	exportService service.ExportService,
) *AdminController {
	return &AdminController{
		adminService:  adminService,
		reportService: reportService,
		exportService: exportService,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login opens an admin session against the shared gate credentials
// POST /api/v1/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid admin login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Username and password are required")
		return
	}

	token, expiry, err := ctrl.adminService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAdminCredentials) {
			log.Warn("Admin login failed: invalid credentials", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AdminInvalidCredentials, "Invalid admin credentials")
			return
		}
		log.Error("Admin login failed", err, nil)
		apperrors.InternalError(c, "Failed to open admin session")
		return
	}

	log.Info("Admin session opened", nil)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Admin login successful",
		"token":      token,
		"expires_in": int64(expiry.Seconds()),
	})
}

// Logout revokes the admin session token
// POST /api/v1/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.GetHeader(middleware.AdminTokenHeader)
	if token == "" {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AdminSessionInvalid, "Admin session token is required")
		return
	}

	if err := ctrl.adminService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Failed to revoke admin session", err, nil)
		apperrors.InternalError(c, "Failed to close admin session")
		return
	}

	log.Info("Admin session closed", nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin logout successful",
	})
}

// ListReports returns all reports with verification answers visible.
// Admin search also matches descriptions.
// GET /api/v1/admin/reports?type=&status=&search=&limit=&offset=
func (ctrl *AdminController) ListReports(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ReportListOptions{
		Search:            c.Query("search"),
		SearchDescription: true,
	}

	if typeStr := c.Query("type"); typeStr != "" {
		t := model.ReportType(typeStr)
		if !t.Valid() {
			apperrors.BadRequest(c, apperrors.ReportInvalidType, "Report type must be lost or found")
			return
		}
		opts.Type = &t
	}
	if statusStr := c.Query("status"); statusStr != "" {
		s := model.ReportStatus(statusStr)
		opts.Status = &s
	}

	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	opts.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := ctrl.reportService.ListReports(opts)
	if err != nil {
		log.Error("Failed to list reports for admin", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reportListResponse(reports, true),
		"count":   len(reports),
	})
}

// GetReport returns a single report with verification answers
// GET /api/v1/admin/reports/:id
func (ctrl *AdminController) GetReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid report ID")
		return
	}

	report, err := ctrl.reportService.GetReportByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			apperrors.NotFound(c, apperrors.ReportNotFound, "Report not found")
			return
		}
		log.Error("Failed to get report for admin", err, map[string]interface{}{
			"report_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": reportResponse(report, true),
	})
}

// VerifyClaim confirms a pending claim after the answers check out
// POST /api/v1/admin/reports/:id/verify
func (ctrl *AdminController) VerifyClaim(c *gin.Context) {
	ctrl.transition(c, "verify", ctrl.reportService.VerifyClaim,
		"Claim verified. The item is awaiting handover",
		"Only reports pending verification can be verified")
}

// ResolveReport marks a report as returned to its owner
// POST /api/v1/admin/reports/:id/resolve
func (ctrl *AdminController) ResolveReport(c *gin.Context) {
	ctrl.transition(c, "resolve", ctrl.reportService.ResolveReport,
		"Report resolved. The item has been returned",
		"Only claimed reports can be resolved")
}

func (ctrl *AdminController) transition(
	c *gin.Context,
	action string,
	fn func(uint) (*model.Report, error),
	okMessage, conflictMessage string,
) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid report ID")
		return
	}

	report, err := fn(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			apperrors.NotFound(c, apperrors.ReportNotFound, "Report not found")
		case errors.Is(err, service.ErrInvalidStatus):
			log.Warn("State transition rejected", map[string]interface{}{
				"report_id": id,
				"action":    action,
			})
			apperrors.Conflict(c, apperrors.ClaimInvalidState, conflictMessage)
		default:
			log.Error("State transition failed", err, map[string]interface{}{
				"report_id": id,
				"action":    action,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update report")
		}
		return
	}

	log.Info("Report state updated", map[string]interface{}{
		"report_id": report.ID,
		"action":    action,
		"status":    report.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": okMessage,
		"report":  reportResponse(report, true),
	})
}

// DeleteReport permanently removes a report
// DELETE /api/v1/admin/reports/:id
func (ctrl *AdminController) DeleteReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid report ID")
		return
	}

	if err := ctrl.reportService.DeleteReport(uint(id)); err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			apperrors.NotFound(c, apperrors.ReportNotFound, "Report not found")
			return
		}
		log.Error("Failed to delete report", err, map[string]interface{}{
			"report_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete report")
		return
	}

	log.Info("Report deleted", map[string]interface{}{
		"report_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Report deleted",
	})
}

// Dashboard returns live status counts plus the latest daily snapshot
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	counts, err := ctrl.reportService.GetCounts()
	if err != nil {
		log.Error("Failed to count reports for dashboard", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count reports")
		return
	}

	resp := gin.H{
		"counts": counts,
	}

	// Snapshot is best effort; the dashboard works without it
	if cached, err := appRedis.GetCachedReportStats(c.Request.Context()); err == nil && cached != "" {
		var snapshot map[string]interface{}
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			resp["snapshot"] = snapshot
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ExportReports streams all reports as a CSV or XLSX download
// GET /api/v1/admin/reports/export?format=csv|xlsx
func (ctrl *AdminController) ExportReports(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	format := c.DefaultQuery("format", "csv")
	filename := fmt.Sprintf("reports_%s.%s", time.Now().Format("2006-01-02"), format)

	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := ctrl.exportService.ExportCSV(c.Writer); err != nil {
			log.Error("CSV export failed", err, nil)
			return
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := ctrl.exportService.ExportXLSX(c.Writer); err != nil {
			log.Error("XLSX export failed", err, nil)
			return
		}
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Export format must be csv or xlsx")
		return
	}

	log.Info("Reports exported", map[string]interface{}{
		"format": format,
	})
}
