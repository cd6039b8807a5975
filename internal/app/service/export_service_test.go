package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupExportService(t *testing.T) (ExportService, ReportService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := repository.NewReportRepository(testDB)
	return NewExportService(repo), NewReportService(repo), testDB
}

func seedExportReports(t *testing.T, reports ReportService) {
	t.Helper()

	_, err := reports.CreateReport(foundDraft(), finder)
	require.NoError(t, err)

	claimed, err := reports.CreateReport(lostDraft(), owner)
	require.NoError(t, err)
	_, err = reports.InitiateClaim(claimed.ID, stranger, sampleAnswers())
	require.NoError(t, err)
}

func TestExportCSV(t *testing.T) {
	exports, reports, testDB := setupExportService(t)
	defer db.CleanupTestDB(testDB)

	seedExportReports(t, reports)

	var buf bytes.Buffer
	require.NoError(t, exports.ExportCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportColumns, rows[0])

	byName := make(map[string][]string)
	for _, row := range rows[1:] {
		require.Len(t, row, len(exportColumns))
		byName[row[2]] = row
	}

	wallet := byName["Black Wallet"]
	require.NotNil(t, wallet)
	assert.Equal(t, "found", wallet[1])
	assert.Equal(t, "unclaimed", wallet[7])
	assert.Equal(t, "", wallet[8])
	assert.Equal(t, finder.Email, wallet[9])

	umbrella := byName["Blue Umbrella"]
	require.NotNil(t, umbrella)
	assert.Equal(t, "lost", umbrella[1])
	assert.Equal(t, "pending_verification", umbrella[7])
	assert.Equal(t, "Yes", umbrella[8])
	assert.Equal(t, owner.Email, umbrella[9])
}

func TestExportCSVEmpty(t *testing.T) {
	exports, _, testDB := setupExportService(t)
	defer db.CleanupTestDB(testDB)

	var buf bytes.Buffer
	require.NoError(t, exports.ExportCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportColumns, rows[0])
}

func TestExportXLSX(t *testing.T) {
	exports, reports, testDB := setupExportService(t)
	defer db.CleanupTestDB(testDB)

	seedExportReports(t, reports)

	var buf bytes.Buffer
	require.NoError(t, exports.ExportXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportColumns, rows[0])

	names := []string{rows[1][2], rows[2][2]}
	assert.Contains(t, names, "Black Wallet")
	assert.Contains(t, names, "Blue Umbrella")
}
