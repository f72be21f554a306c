package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/netpointcafe/portal-backend/internal/config"
	"github.com/netpointcafe/portal-backend/internal/db"
	"github.com/netpointcafe/portal-backend/internal/model"
	"gorm.io/gorm"
)

type seedService struct {
	Name            string
	Description     string
	Category        string
	PriceCents      uint
	DurationMinutes uint
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(&model.CatalogService{}, &model.UserRole{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := seedCatalog(ctx, gdb); err != nil {
		return err
	}
	if err := seedStaff(ctx, gdb); err != nil {
		return err
	}
	return nil
}

func seedCatalog(ctx context.Context, gdb *gorm.DB) error {
	var cnt int64
	if err := gdb.WithContext(ctx).Model(&model.CatalogService{}).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("services already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	for _, s := range buildSeedServices() {
		dur := s.DurationMinutes
		svc := model.CatalogService{
			Name:            s.Name,
			Description:     s.Description,
			Category:        s.Category,
			PriceCents:      s.PriceCents,
			DurationMinutes: &dur,
			Active:          true,
		}
		if err := gdb.WithContext(ctx).Create(&svc).Error; err != nil {
			return fmt.Errorf("seed service %q: %w", s.Name, err)
		}
	}
	log.Printf("seeded %d services", len(buildSeedServices()))
	return nil
}

// seedStaff grants the staff role to uids listed in STAFF_UIDS
// (comma separated).
func seedStaff(ctx context.Context, gdb *gorm.DB) error {
	raw := os.Getenv("STAFF_UIDS")
	if raw == "" {
		return nil
	}
	for _, uid := range strings.Split(raw, ",") {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			continue
		}
		role := model.UserRole{UserUID: uid, Role: model.RoleStaff}
		if err := gdb.WithContext(ctx).
			Where("user_uid = ? AND role = ?", uid, model.RoleStaff).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed staff %q: %w", uid, err)
		}
		log.Printf("granted staff role to %s", uid)
	}
	return nil
}

func buildSeedServices() []seedService {
	return []seedService{
		{"Internet access (1 hour)", "High-speed internet on our desktop stations.", "cafe", 150, 60},
		{"Printing (per page, B/W)", "Black and white laser printing.", "cafe", 25, 0},
		{"Printing (per page, colour)", "Colour laser printing.", "cafe", 75, 0},
		{"Scanning & email", "Document scanning sent straight to your inbox.", "cafe", 50, 0},
		{"Computer basics course", "Four-week introduction to computers and the internet.", "training", 12000, 240},
		{"Office applications course", "Hands-on training for documents, spreadsheets and slides.", "training", 18000, 360},
		{"Typing certification", "Supervised typing speed test with certificate.", "training", 4000, 45},
		{"CV & cover letter service", "We draft and print a professional CV with you.", "services", 6000, 90},
	}
}
