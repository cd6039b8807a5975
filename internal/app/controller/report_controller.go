package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/service"
	apperrors "github.com/sjoh/foundly-backend/internal/errors"
	"github.com/sjoh/foundly-backend/internal/middleware"
)

type ReportController struct {
	reportService service.ReportService
	authService   service.AuthService
}

func NewReportController(reportService service.ReportService, authService service.AuthService) *ReportController {
	return &ReportController{
		reportService: reportService,
		authService:   authService,
	}
}

type CreateReportRequest struct {
	Type        string `json:"type" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Place       string `json:"place"`
	Contact     string `json:"contact"`
	ImageURL    string `json:"image_url"`
}

type VerificationAnswersRequest struct {
	Color    string `json:"color"`
	Marking  string `json:"marking"`
	Contents string `json:"contents"`
}

type ClaimReportRequest struct {
	Answers *VerificationAnswersRequest `json:"answers" binding:"required"`
}

// reportResponse shapes a report for API output. Verification answers
// stay server-side; only the claim state is exposed.
func reportResponse(r *model.Report, adminView bool) gin.H {
	resp := gin.H{
		"id":           r.ID,
		"type":         r.Type,
		"name":         r.Name,
		"description":  r.Description,
		"place":        r.Place,
		"contact":      r.Contact,
		"image_url":    r.ImageURL,
		"status":       r.Status,
		"status_label": r.StatusLabel(adminView),
		"claimed":      r.IsClaimed(),
		"reporter": gin.H{
			"id":    r.ReporterID,
			"email": r.ReporterEmail,
			"name":  r.ReporterName,
		},
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}

	if r.ClaimerID != nil {
		resp["claimer"] = gin.H{
			"id":    *r.ClaimerID,
			"email": r.ClaimerEmail,
			"name":  r.ClaimerName,
		}
		resp["claim_reference"] = r.ClaimReference
		resp["claimed_at"] = r.ClaimedAt
	}

	if adminView {
		resp["answers"] = gin.H{
			"color":    r.Answers.Color,
			"marking":  r.Answers.Marking,
			"contents": r.Answers.Contents,
		}
	}

	return resp
}

func reportListResponse(reports []model.Report, adminView bool) []gin.H {
	out := make([]gin.H, 0, len(reports))
	for i := range reports {
		out = append(out, reportResponse(&reports[i], adminView))
	}
	return out
}

// identity resolves the authenticated caller into the denormalized
// identity stamped onto report rows.
func (ctrl *ReportController) identity(c *gin.Context) (service.Identity, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return service.Identity{}, false
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		return service.Identity{}, false
	}

	return service.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}, true
}

// CreateReport files a new lost or found report
// POST /api/v1/reports
func (ctrl *ReportController) CreateReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	reporter, ok := ctrl.identity(c)
	if !ok {
		log.Warn("Unauthenticated report creation attempt", nil)
		apperrors.Unauthorized(c, "Login required to file a report")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create report request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid report details")
		return
	}

	log.Debug("Processing report creation", map[string]interface{}{
		"type":        req.Type,
		"name":        req.Name,
		"reporter_id": reporter.ID,
	})

	draft := service.ReportDraft{
		Type:        model.ReportType(req.Type),
		Name:        req.Name,
		Description: req.Description,
		Place:       req.Place,
		Contact:     req.Contact,
		ImageURL:    req.ImageURL,
	}

	report, err := ctrl.reportService.CreateReport(draft, reporter)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Report draft rejected", map[string]interface{}{
				"reporter_id": reporter.ID,
				"fields":      validationErr.Fields,
			})
			apperrors.RespondWithValidationError(c, validationErr.Fields)
			return
		}
		if errors.Is(err, service.ErrInvalidReportType) {
			log.Warn("Report draft rejected: invalid type", map[string]interface{}{
				"type": req.Type,
			})
			apperrors.BadRequest(c, apperrors.ReportInvalidType, "Report type must be lost or found")
			return
		}
		log.Error("Failed to create report", err, map[string]interface{}{
			"reporter_id": reporter.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create report")
		return
	}

	log.Info("Report created", map[string]interface{}{
		"report_id":   report.ID,
		"type":        report.Type,
		"reporter_id": reporter.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Report filed successfully",
		"report":  reportResponse(report, false),
	})
}

// ListReports returns the public report feed, newest first
// GET /api/v1/reports?type=&status=&search=&limit=&offset=
func (ctrl *ReportController) ListReports(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ReportListOptions{
		Search: c.Query("search"),
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

	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	opts.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := ctrl.reportService.ListReports(opts)
	if err != nil {
		log.Error("Failed to list reports", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reportListResponse(reports, false),
		"count":   len(reports),
	})
}

// GetReport returns a single report
// GET /api/v1/reports/:id
func (ctrl *ReportController) GetReport(c *gin.Context) {
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
		log.Error("Failed to get report", err, map[string]interface{}{
			"report_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": reportResponse(report, false),
	})
}

// GetMyReports returns reports filed by the caller
// GET /api/v1/reports/mine
func (ctrl *ReportController) GetMyReports(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	reports, err := ctrl.reportService.GetMyReports(userID)
	if err != nil {
		log.Error("Failed to list own reports", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reportListResponse(reports, false),
		"count":   len(reports),
	})
}

// GetCounts returns report totals broken down by status
// GET /api/v1/reports/counts
func (ctrl *ReportController) GetCounts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	counts, err := ctrl.reportService.GetCounts()
	if err != nil {
		log.Error("Failed to count reports", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": counts,
	})
}

// ClaimReport lets the caller claim a report with verification answers
// POST /api/v1/reports/:id/claim
func (ctrl *ReportController) ClaimReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claimant, ok := ctrl.identity(c)
	if !ok {
		log.Warn("Unauthenticated claim attempt", nil)
		apperrors.Unauthorized(c, "Login required to claim an item")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid report ID")
		return
	}

	var req ClaimReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid claim request", map[string]interface{}{
			"report_id": id,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ClaimAnswersRequired, "Verification answers are required")
		return
	}

	log.Debug("Processing claim", map[string]interface{}{
		"report_id":   id,
		"claimant_id": claimant.ID,
	})

	answers := &model.VerificationAnswers{
		Color:    req.Answers.Color,
		Marking:  req.Answers.Marking,
		Contents: req.Answers.Contents,
	}

	report, err := ctrl.reportService.InitiateClaim(uint(id), claimant, answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			apperrors.NotFound(c, apperrors.ReportNotFound, "Report not found")
		case errors.Is(err, service.ErrReportAlreadyClaimed):
			log.Warn("Claim rejected: report already claimed", map[string]interface{}{
				"report_id": id,
			})
			apperrors.Conflict(c, apperrors.ClaimInvalidState, "This item has already been claimed")
		case errors.Is(err, service.ErrSelfClaim):
			log.Warn("Claim rejected: finder claiming own found item", map[string]interface{}{
				"report_id":   id,
				"claimant_id": claimant.ID,
			})
			apperrors.Forbidden(c, apperrors.ClaimSelfClaim, "You cannot claim an item you reported as found")
		case errors.Is(err, service.ErrAnswersRequired):
			apperrors.BadRequest(c, apperrors.ClaimAnswersRequired, "Verification answers are required")
		default:
			log.Error("Failed to claim report", err, map[string]interface{}{
				"report_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "claim report")
		}
		return
	}

	log.Info("Report claimed", map[string]interface{}{
		"report_id":       report.ID,
		"claimant_id":     claimant.ID,
		"claim_reference": report.ClaimReference,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Claim submitted. The item is pending verification",
		"report":  reportResponse(report, false),
	})
}
