package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/internal/app/model"
	"github.com/sjoh/foundly-backend/internal/app/repository"
	"github.com/sjoh/foundly-backend/internal/db"
	"github.com/sjoh/foundly-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Backfills reports from a front-desk spreadsheet. Expected columns:
// type, name, description, place, contact, reporter_email, reporter_name.
// Reporter accounts missing from the database are created with a random
// password so the rows can be attributed; owners reset it on first login.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	reportRepo := repository.NewReportRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	reports, err := readReportsFromXLSX(filePath, userRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total reports to import: %d\n", len(reports))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := reportRepo.BulkCreate(reports, batchSize); err != nil {
		log.Fatal("Failed to bulk create reports:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total reports imported: %d\n", len(reports))
}

func readReportsFromXLSX(filePath string, userRepo repository.UserRepository) ([]model.Report, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var reports []model.Report
	reporterCache := make(map[string]*model.User)
	skippedCount := 0

	// First row is the header
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skippedCount++
			continue
		}

		reportType := model.ReportType(strings.ToLower(strings.TrimSpace(row[0])))
		name := strings.TrimSpace(row[1])
		description := strings.TrimSpace(row[2])
		place := strings.TrimSpace(row[3])
		contact := strings.TrimSpace(row[4])
		reporterEmail := strings.ToLower(strings.TrimSpace(row[5]))
		reporterName := strings.TrimSpace(row[6])

		if !reportType.Valid() || name == "" || place == "" || reporterEmail == "" {
			skippedCount++
			continue
		}

		reporter, err := resolveReporter(userRepo, reporterCache, reporterEmail, reporterName)
		if err != nil {
			fmt.Printf("Row %d: failed to resolve reporter %s: %v\n", i+1, reporterEmail, err)
			skippedCount++
			continue
		}

		reports = append(reports, model.Report{
			Type:          reportType,
			Name:          name,
			Description:   description,
			Place:         place,
			Contact:       contact,
			ReporterID:    reporter.ID,
			ReporterEmail: reporter.Email,
			ReporterName:  reporter.Name,
			Status:        model.StatusUnclaimed,
		})

		if len(reports)%500 == 0 {
			fmt.Printf("Processed %d reports...\n", len(reports))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid reports: %d\n", len(reports))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return reports, nil
}

func resolveReporter(
	userRepo repository.UserRepository,
	cache map[string]*model.User,
	email, name string,
) (*model.User, error) {
	if user, ok := cache[email]; ok {
		return user, nil
	}

	user, err := userRepo.FindByEmail(email)
	if err == nil {
		cache[email] = user
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		name = email
	}

	passwordHash, err := util.HashPassword(uuid.New().String())
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         model.RoleUser,
	}
	if err := userRepo.Create(user); err != nil {
		return nil, err
	}

	cache[email] = user
	return user, nil
}
