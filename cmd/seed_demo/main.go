package main

import (
	"context"
	"log"

	"github.com/siamcare/doctrackgo/internal/config"
	"github.com/siamcare/doctrackgo/internal/database"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/service"
	"github.com/siamcare/doctrackgo/internal/utils"
)

type demoDocument struct {
	create models.CreateDocumentDto
	status []models.UpdateStatusDto
}

// Seeds a demo staff account and a spread of documents across
// departments and statuses so the dashboard has something to show.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, _ := logging.New(cfg.LogLevel, 100)
	ctx := context.Background()

	var (
		docs  repository.DocumentRepository
		staff repository.StaffRepository
		db    *database.DB
	)
	switch cfg.Storage.Backend {
	case "file":
		cache := repository.NewTTLCache(cfg.Storage.CacheTTL)
		fileRepo, err := repository.NewFileRepository(cfg.Storage.FilePath, cache, logger)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		docs = fileRepo
		staff = repository.NewMemoryStaffRepository()
	default:
		db, err = database.Connect(cfg.Database, logger)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.AutoMigrate(&models.Document{}, &models.StaffAuth{}); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		docs = repository.NewGormRepository(db, logger)
		staff = repository.NewGormStaffRepository(db)
	}

	seedStaff(ctx, staff)

	svc := service.New(docs, cfg.Rosters, logger, nil)
	seedDocuments(ctx, svc)

	log.Println("Demo data seeded")
}

func seedStaff(ctx context.Context, staff repository.StaffRepository) {
	hashed, err := utils.HashPassword("admin12345")
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	err = staff.Create(ctx, &models.StaffAuth{
		Username:   "admin",
		Password:   hashed,
		Name:       "Demo Administrator",
		Department: "Administration",
		Role:       "admin",
		IsActive:   true,
	})
	switch err {
	case nil:
		log.Println("Created staff account admin / admin12345")
	case repository.ErrUsernameTaken:
		log.Println("Staff account admin already exists, skipping")
	default:
		log.Fatalf("Failed to create staff account: %v", err)
	}
}

func seedDocuments(ctx context.Context, svc *service.DocumentService) {
	demo := []demoDocument{
		{
			create: models.CreateDocumentDto{
				SenderName:   "Somchai Jaidee",
				Department:   "MED",
				DocumentType: "FORM",
				WeekRange:    "Sep 1 - Sep 7",
				Details:      "Patient record correction request",
			},
		},
		{
			create: models.CreateDocumentDto{
				SenderName:   "Malee Srisuk",
				Department:   "PED",
				DocumentType: "POLICY",
				WeekRange:    "Sep 1 - Sep 7",
				Details:      "Updated cold-chain handling policy",
			},
			status: []models.UpdateStatusDto{
				{Status: models.StatusProcessing, StaffName: "Demo Administrator"},
			},
		},
		{
			create: models.CreateDocumentDto{
				SenderName:   "Anong Chaiyo",
				Department:   "GI",
				DocumentType: "WI",
				WeekRange:    "Aug 25 - Aug 31",
				Details:      "Revised specimen labelling work instruction",
			},
			status: []models.UpdateStatusDto{
				{Status: models.StatusProcessing, StaffName: "Demo Administrator"},
				{Status: models.StatusCompleted, StaffName: "Demo Administrator", Note: "Filed and distributed"},
			},
		},
		{
			create: models.CreateDocumentDto{
				SenderName:   "Prasert Wong",
				Department:   "EYE",
				DocumentType: "WP",
				WeekRange:    "Aug 25 - Aug 31",
				Details:      "Updated pre-operative checklist procedure",
			},
			status: []models.UpdateStatusDto{
				{Status: models.StatusProcessing, StaffName: "Demo Administrator"},
				{Status: models.StatusCancelled, StaffName: "Demo Administrator", CancelReason: "Superseded by a newer revision"},
			},
		},
		{
			create: models.CreateDocumentDto{
				SenderName:   "Siriporn Thongchai",
				Department:   "OBG",
				DocumentType: "WAITING TIME",
				WeekRange:    "Aug 18 - Aug 24",
				Details:      "Outpatient waiting time report, August",
			},
		},
	}

	for _, d := range demo {
		doc, err := svc.SubmitDocument(ctx, d.create)
		if err != nil {
			log.Fatalf("Failed to seed document for %s: %v", d.create.SenderName, err)
		}
		for _, upd := range d.status {
			if _, err := svc.UpdateDocumentStatus(ctx, doc.ID, upd); err != nil {
				log.Fatalf("Failed to advance %s to %s: %v", doc.ID, upd.Status, err)
			}
		}
		log.Printf("Seeded %s (%s, %s)", doc.ID, d.create.Department, d.create.DocumentType)
	}
}
