package service

import (
	"errors"
	"strings"
	"time"

	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/pkg/logger"
	"github.com/sjoh/foundly-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound       = errors.New("report not found")
	ErrInvalidReportType    = errors.New("invalid report type")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrReportAlreadyClaimed = errors.New("report has already been claimed")
	ErrInvalidStatus        = errors.New("operation not allowed in current status")
	ErrSelfClaim            = errors.New("the finder of an item cannot claim it")
	ErrAnswersRequired      = errors.New("verification answers are required")
)

// ValidationError carries per-field messages for a rejected draft
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "report draft validation failed"
}

// Identity is the authenticated caller acting on a report. A zero ID
// means no one is signed in.
type Identity struct {
	ID    uint
	Email string
	Name  string
}

// ReportDraft is a report submission before it is persisted
type ReportDraft struct {
	Type        model.ReportType
	Name        string
	Description string
	Place       string
	Contact     string
	ImageURL    string
}

type ReportListOptions struct {
	Type              *model.ReportType
	Status            *model.ReportStatus
	Search            string
	SearchDescription bool
	Limit             int
	Offset            int
}

type ReportService interface {
	CreateReport(draft ReportDraft, reporter Identity) (*model.Report, error)
	InitiateClaim(reportID uint, claimant Identity, answers *model.VerificationAnswers) (*model.Report, error)
	VerifyClaim(reportID uint) (*model.Report, error)
	ResolveReport(reportID uint) (*model.Report, error)
	DeleteReport(reportID uint) error

	GetReportByID(id uint) (*model.Report, error)
	ListReports(opts ReportListOptions) ([]model.Report, error)
	GetMyReports(userID uint) ([]model.Report, error)
	GetCounts() (repository.StatusCounts, error)
}

// Notifier is the slice of the notification service the lifecycle engine
// fans out to. Notification failures never fail the triggering operation.
type Notifier interface {
	NotifyReportClaimed(report *model.Report) error
	NotifyClaimVerified(report *model.Report) error
	NotifyReportResolved(report *model.Report) error
	NotifyWatchers(report *model.Report) error
}

type reportService struct {
	reportRepo repository.ReportRepository
	notifier   Notifier
}

func NewReportService(reportRepo repository.ReportRepository, notifier ...Notifier) ReportService {
	var n Notifier
	if len(notifier) > 0 {
		n = notifier[0]
	}
	return &reportService{
		reportRepo: reportRepo,
		notifier:   n,
	}
}

// CreateReport validates a draft and persists it in the unclaimed state.
// Reporter identity is denormalized onto the row at this moment.
func (s *reportService) CreateReport(draft ReportDraft, reporter Identity) (*model.Report, error) {
	logger.Debug("Creating report", map[string]interface{}{
		"type":        draft.Type,
		"name":        draft.Name,
		"reporter_id": reporter.ID,
	})

	if reporter.ID == 0 {
		logger.Warn("Report creation rejected: not signed in", nil)
		return nil, ErrUnauthenticated
	}

	if err := validateDraft(draft); err != nil {
		logger.Warn("Report creation rejected: invalid draft", map[string]interface{}{
			"reporter_id": reporter.ID,
		})
		return nil, err
	}

	report := &model.Report{
		Type:          draft.Type,
		Name:          strings.TrimSpace(draft.Name),
		Description:   strings.TrimSpace(draft.Description),
		Place:         strings.TrimSpace(draft.Place),
		Contact:       strings.TrimSpace(draft.Contact),
		ImageURL:      draft.ImageURL,
		ReporterID:    reporter.ID,
		ReporterEmail: reporter.Email,
		ReporterName:  reporter.Name,
		Status:        model.StatusUnclaimed,
	}

	if err := s.reportRepo.Create(report); err != nil {
		logger.Error("Failed to create report", err, map[string]interface{}{
			"reporter_id": reporter.ID,
		})
		return nil, err
	}

	if s.notifier != nil && report.Type == model.ReportTypeFound {
		if err := s.notifier.NotifyWatchers(report); err != nil {
			logger.Warn("Failed to notify place watchers", map[string]interface{}{
				"report_id": report.ID,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Report created", map[string]interface{}{
		"report_id":   report.ID,
		"type":        report.Type,
		"reporter_id": reporter.ID,
	})
	return report, nil
}

// InitiateClaim moves an unclaimed report to pending verification and
// records the claimant with their verification answers. A report can be
// claimed exactly once; a found item cannot be claimed by its finder.
func (s *reportService) InitiateClaim(
	reportID uint,
	claimant Identity,
	answers *model.VerificationAnswers,
) (*model.Report, error) {
	logger.Debug("Initiating claim", map[string]interface{}{
		"report_id":  reportID,
		"claimer_id": claimant.ID,
	})

	if claimant.ID == 0 {
		logger.Warn("Claim rejected: not signed in", map[string]interface{}{
			"report_id": reportID,
		})
		return nil, ErrUnauthenticated
	}
	if answers == nil {
		logger.Warn("Claim rejected: no verification answers", map[string]interface{}{
			"report_id":  reportID,
			"claimer_id": claimant.ID,
		})
		return nil, ErrAnswersRequired
	}

	report, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != model.StatusUnclaimed {
		logger.Warn("Claim rejected: report already claimed", map[string]interface{}{
			"report_id": reportID,
			"status":    report.Status,
		})
		return nil, ErrReportAlreadyClaimed
	}
	if report.Type == model.ReportTypeFound && report.ReporterID == claimant.ID {
		logger.Warn("Claim rejected: finder claiming own found item", map[string]interface{}{
			"report_id":  reportID,
			"claimer_id": claimant.ID,
		})
		return nil, ErrSelfClaim
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":          model.StatusPendingVerification,
		"claimer_id":      claimant.ID,
		"claimer_email":   claimant.Email,
		"claimer_name":    claimant.Name,
		"claim_reference": util.GenerateClaimReference(),
		"answer_color":    answers.Color,
		"answer_marking":  answers.Marking,
		"answer_contents": answers.Contents,
		"claimed_at":      now,
	}
	if err := s.reportRepo.UpdateFields(reportID, fields); err != nil {
		logger.Error("Failed to record claim", err, map[string]interface{}{
			"report_id": reportID,
		})
		return nil, err
	}

	updated, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReportClaimed(updated); err != nil {
			logger.Warn("Failed to notify reporter of new claim", map[string]interface{}{
				"report_id": reportID,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Claim initiated", map[string]interface{}{
		"report_id":  reportID,
		"claimer_id": claimant.ID,
		"reference":  updated.ClaimReference,
	})
	return updated, nil
}

// VerifyClaim marks a pending claim as verified by the administrator.
// Defined only on pending_verification; a repeat verify is an error,
// not a silent no-op.
func (s *reportService) VerifyClaim(reportID uint) (*model.Report, error) {
	logger.Debug("Verifying claim", map[string]interface{}{
		"report_id": reportID,
	})

	report, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != model.StatusPendingVerification {
		logger.Warn("Verify rejected: claim not pending", map[string]interface{}{
			"report_id": reportID,
			"status":    report.Status,
		})
		return nil, ErrInvalidStatus
	}

	fields := map[string]interface{}{
		"status": model.StatusVerified,
	}
	if err := s.reportRepo.UpdateFields(reportID, fields); err != nil {
		logger.Error("Failed to verify claim", err, map[string]interface{}{
			"report_id": reportID,
		})
		return nil, err
	}

	updated, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyClaimVerified(updated); err != nil {
			logger.Warn("Failed to notify claimant of verification", map[string]interface{}{
				"report_id": reportID,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Claim verified", map[string]interface{}{
		"report_id": reportID,
	})
	return updated, nil
}

// ResolveReport closes out a claim. Administrators may resolve straight
// from pending verification, skipping the explicit verify step. Resolved
// is terminal: a second resolve fails without touching the row.
func (s *reportService) ResolveReport(reportID uint) (*model.Report, error) {
	logger.Debug("Resolving report", map[string]interface{}{
		"report_id": reportID,
	})

	report, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != model.StatusPendingVerification && report.Status != model.StatusVerified {
		logger.Warn("Resolve rejected: invalid status", map[string]interface{}{
			"report_id": reportID,
			"status":    report.Status,
		})
		return nil, ErrInvalidStatus
	}

	fields := map[string]interface{}{
		"status": model.StatusResolved,
	}
	if err := s.reportRepo.UpdateFields(reportID, fields); err != nil {
		logger.Error("Failed to resolve report", err, map[string]interface{}{
			"report_id": reportID,
		})
		return nil, err
	}

	updated, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReportResolved(updated); err != nil {
			logger.Warn("Failed to notify claimant of resolution", map[string]interface{}{
				"report_id": reportID,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Report resolved", map[string]interface{}{
		"report_id": reportID,
	})
	return updated, nil
}

// DeleteReport removes a report permanently, from any state
func (s *reportService) DeleteReport(reportID uint) error {
	logger.Debug("Deleting report", map[string]interface{}{
		"report_id": reportID,
	})

	if _, err := s.findReport(reportID); err != nil {
		return err
	}

	if err := s.reportRepo.Delete(reportID); err != nil {
		logger.Error("Failed to delete report", err, map[string]interface{}{
			"report_id": reportID,
		})
		return err
	}

	logger.Info("Report deleted", map[string]interface{}{
		"report_id": reportID,
	})
	return nil
}

func (s *reportService) GetReportByID(id uint) (*model.Report, error) {
	return s.findReport(id)
}

func (s *reportService) ListReports(opts ReportListOptions) ([]model.Report, error) {
	logger.Debug("Listing reports", map[string]interface{}{
		"type":   opts.Type,
		"status": opts.Status,
		"search": opts.Search,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})

	filter := repository.ReportFilter{
		Type:              opts.Type,
		Status:            opts.Status,
		Search:            opts.Search,
		SearchDescription: opts.SearchDescription,
		Limit:             opts.Limit,
		Offset:            opts.Offset,
	}

	reports, err := s.reportRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list reports", err)
		return nil, err
	}

	logger.Info("Reports listed", map[string]interface{}{
		"count": len(reports),
	})
	return reports, nil
}

func (s *reportService) GetMyReports(userID uint) ([]model.Report, error) {
	logger.Debug("Fetching reports by reporter", map[string]interface{}{
		"reporter_id": userID,
	})

	reports, err := s.reportRepo.FindByReporter(userID)
	if err != nil {
		logger.Error("Failed to fetch reports by reporter", err, map[string]interface{}{
			"reporter_id": userID,
		})
		return nil, err
	}
	return reports, nil
}

func (s *reportService) GetCounts() (repository.StatusCounts, error) {
	counts, err := s.reportRepo.CountByStatus()
	if err != nil {
		logger.Error("Failed to fetch report counts", err)
		return repository.StatusCounts{}, err
	}
	return counts, nil
}

// findReport maps the gorm not-found error onto the service sentinel
func (s *reportService) findReport(id uint) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Report not found", map[string]interface{}{
				"report_id": id,
			})
			return nil, ErrReportNotFound
		}
		logger.Error("Failed to fetch report", err, map[string]interface{}{
			"report_id": id,
		})
		return nil, err
	}
	return report, nil
}

func validateDraft(draft ReportDraft) error {
	fields := map[string]string{}

	if !draft.Type.Valid() {
		return ErrInvalidReportType
	}
	if strings.TrimSpace(draft.Name) == "" {
		fields["name"] = "Item name is required"
	}
	if strings.TrimSpace(draft.Description) == "" {
		fields["description"] = "Description is required"
	}
	if strings.TrimSpace(draft.Place) == "" {
		fields["place"] = "Place is required"
	}
	if strings.TrimSpace(draft.Contact) == "" {
		fields["contact"] = "Contact is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
