package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the fixed column order of both export formats.
// "claimed" is the legacy boolean-style column: "Yes" once a claim
// exists, empty otherwise.
var exportColumns = []string{
	"id", "type", "name", "description", "place", "contact",
	"created_at", "status", "claimed", "reporter_email",
}

type ExportService interface {
	ExportCSV(w io.Writer) error
	ExportXLSX(w io.Writer) error
}

type exportService struct {
	reportRepo repository.ReportRepository
}

func NewExportService(reportRepo repository.ReportRepository) ExportService {
	return &exportService{reportRepo: reportRepo}
}

func (s *exportService) ExportCSV(w io.Writer) error {
	logger.Debug("Exporting reports as CSV", nil)

	reports, err := s.reportRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch reports for CSV export", err)
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return err
	}
	for i := range reports {
		if err := writer.Write(exportRow(&reports[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Error("Failed to write CSV export", err)
		return err
	}

	logger.Info("Reports exported as CSV", map[string]interface{}{
		"count": len(reports),
	})
	return nil
}

func (s *exportService) ExportXLSX(w io.Writer) error {
	logger.Debug("Exporting reports as XLSX", nil)

	reports, err := s.reportRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch reports for XLSX export", err)
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, header := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i := range reports {
		row := exportRow(&reports[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write XLSX export", err)
		return err
	}

	logger.Info("Reports exported as XLSX", map[string]interface{}{
		"count": len(reports),
	})
	return nil
}

func exportRow(r *model.Report) []string {
	claimed := ""
	if r.IsClaimed() {
		claimed = "Yes"
	}
	return []string{
		fmt.Sprintf("%d", r.ID),
		string(r.Type),
		r.Name,
		r.Description,
		r.Place,
		r.Contact,
		r.CreatedAt.Format(time.RFC3339),
		string(r.Status),
		claimed,
		r.ReporterEmail,
	}
}
