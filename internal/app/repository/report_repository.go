package repository

import (
	"fmt"

	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReportFilter narrows a report listing. Zero values mean "no filter".
type ReportFilter struct {
	Type       *model.ReportType
	Status     *model.ReportStatus
	ReporterID *uint
	ClaimerID  *uint
	Search     string
	// SearchDescription widens the search to the description column,
	// which the admin view uses.
	SearchDescription bool
	Limit             int
	Offset            int
}

// StatusCounts are the named dashboard counts, one per lifecycle state.
type StatusCounts struct {
	Total               int64 `json:"total"`
	Unclaimed           int64 `json:"unclaimed"`
	PendingVerification int64 `json:"pending_verification"`
	Verified            int64 `json:"verified"`
	Resolved            int64 `json:"resolved"`
}

type ReportRepository interface {
	Create(report *model.Report) error
	FindAll() ([]model.Report, error)
	FindWithFilter(filter ReportFilter) ([]model.Report, error)
	FindByID(id uint) (*model.Report, error)
	FindByReporter(reporterID uint) ([]model.Report, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	CountByStatus() (StatusCounts, error)
	BulkCreate(reports []model.Report, batchSize int) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *model.Report) error {
	logger.Debug("Creating report in database", map[string]interface{}{
		"type":        report.Type,
		"name":        report.Name,
		"place":       report.Place,
		"reporter_id": report.ReporterID,
	})

	if err := r.db.Create(report).Error; err != nil {
		logger.Error("Failed to create report in database", err, map[string]interface{}{
			"type":        report.Type,
			"name":        report.Name,
			"reporter_id": report.ReporterID,
		})
		return err
	}

	logger.Debug("Report created in database", map[string]interface{}{
		"report_id": report.ID,
		"name":      report.Name,
	})
	return nil
}

func (r *reportRepository) FindAll() ([]model.Report, error) {
	return r.FindWithFilter(ReportFilter{})
}

func (r *reportRepository) FindWithFilter(filter ReportFilter) ([]model.Report, error) {
	logger.Debug("Finding reports with filter", map[string]interface{}{
		"type":        filter.Type,
		"status":      filter.Status,
		"reporter_id": filter.ReporterID,
		"claimer_id":  filter.ClaimerID,
		"search":      filter.Search,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.Model(&model.Report{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.ClaimerID != nil {
		query = query.Where("claimer_id = ?", *filter.ClaimerID)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		if filter.SearchDescription {
			query = query.Where("name LIKE ? OR description LIKE ? OR place LIKE ?", like, like, like)
		} else {
			query = query.Where("name LIKE ? OR place LIKE ?", like, like)
		}
	}

	// Newest first, always
	query = query.Order("created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var reports []model.Report
	if err := query.Find(&reports).Error; err != nil {
		logger.Error("Failed to find reports with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Reports found with filter", map[string]interface{}{
		"count": len(reports),
	})
	return reports, nil
}

func (r *reportRepository) FindByID(id uint) (*model.Report, error) {
	logger.Debug("Finding report by ID in database", map[string]interface{}{
		"report_id": id,
	})

	var report model.Report
	err := r.db.First(&report, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find report by ID in database", err, map[string]interface{}{
				"report_id": id,
			})
		}
		return nil, err
	}

	return &report, nil
}

func (r *reportRepository) FindByReporter(reporterID uint) ([]model.Report, error) {
	return r.FindWithFilter(ReportFilter{ReporterID: &reporterID})
}

// UpdateFields applies a partial update; columns not named are untouched.
// Callers pass explicit column maps so immutable fields never change here.
func (r *reportRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	logger.Debug("Updating report fields in database", map[string]interface{}{
		"report_id": id,
		"fields":    len(fields),
	})

	if err := r.db.Model(&model.Report{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		logger.Error("Failed to update report fields in database", err, map[string]interface{}{
			"report_id": id,
		})
		return err
	}

	logger.Debug("Report fields updated in database", map[string]interface{}{
		"report_id": id,
	})
	return nil
}

// Delete removes the report permanently. Reports carry no soft-delete
// column, so this is a hard delete with no tombstone.
func (r *reportRepository) Delete(id uint) error {
	logger.Debug("Deleting report from database", map[string]interface{}{
		"report_id": id,
	})

	if err := r.db.Delete(&model.Report{}, id).Error; err != nil {
		logger.Error("Failed to delete report from database", err, map[string]interface{}{
			"report_id": id,
		})
		return err
	}

	logger.Debug("Report deleted from database", map[string]interface{}{
		"report_id": id,
	})
	return nil
}

// BulkCreate inserts reports in batches, used by the XLSX backfill tool
func (r *reportRepository) BulkCreate(reports []model.Report, batchSize int) error {
	logger.Info("Bulk creating reports in database", map[string]interface{}{
		"count":      len(reports),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(reports, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create reports in database", err, map[string]interface{}{
			"count": len(reports),
		})
		return err
	}

	return nil
}

func (r *reportRepository) CountByStatus() (StatusCounts, error) {
	logger.Debug("Counting reports by status", nil)

	var rows []struct {
		Status model.ReportStatus
		Count  int64
	}
	err := r.db.Model(&model.Report{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count reports by status", err, nil)
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case model.StatusUnclaimed:
			counts.Unclaimed = row.Count
		case model.StatusPendingVerification:
			counts.PendingVerification = row.Count
		case model.StatusVerified:
			counts.Verified = row.Count
		case model.StatusResolved:
			counts.Resolved = row.Count
		}
	}

	logger.Debug("Reports counted by status", map[string]interface{}{
		"total": counts.Total,
	})
	return counts, nil
}
