package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edugrant/internal/config"
	"edugrant/internal/db"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// systemRoles are seeded once and cannot be deleted through the API.
var systemRoles = []model.Role{
	{Name: "student", Description: "Scholarship applicant", System: true},
	{Name: "admin", Description: "Platform administrator", System: true},
	{Name: "reviewer", Description: "Application reviewer", System: true},
	{Name: "donor", Description: "Scheme funder", System: true},
	{Name: "surveyor", Description: "Field verification capability", System: true},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Scholarship{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	scholarshipRepo := repository.NewScholarshipRepository(gormDB)

	for _, role := range systemRoles {
		existing, err := roleRepo.FindByName(ctx, role.Name)
		if err == nil && existing != nil {
			continue
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("check role %s: %v", role.Name, err)
		}
		r := role
		if err := roleRepo.Create(ctx, &r); err != nil {
			log.Fatalf("create role %s: %v", role.Name, err)
		}
		log.Printf("seeded role %s", role.Name)
	}

	admin, err := seedAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	if err := seedScholarships(ctx, scholarshipRepo, admin); err != nil {
		log.Fatalf("seed scholarships: %v", err)
	}

	log.Println("Seed complete")
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository) (*model.User, error) {
	const adminEmail = "admin@edugrant.local"

	existing, err := userRepo.FindByEmail(ctx, adminEmail)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe1"), 10)
	if err != nil {
		return nil, err
	}

	admin := &model.User{
		Email:         adminEmail,
		PasswordHash:  string(hashed),
		FirstName:     "Platform",
		LastName:      "Admin",
		UserType:      model.UserTypeAdmin,
		Active:        true,
		EmailVerified: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("seeded admin user %s", adminEmail)
	return admin, nil
}

func seedScholarships(ctx context.Context, repo repository.ScholarshipRepository, admin *model.User) error {
	existing, _, err := repo.List(ctx, repository.ScholarshipFilter{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	maxApplications := 200
	samples := []model.Scholarship{
		{
			Title:               "STEM Excellence Grant",
			Description:         "Merit-based grant for science and engineering undergraduates.",
			Amount:              decimal.NewFromInt(5000),
			Currency:            "USD",
			ApplicationDeadline: time.Now().AddDate(0, 3, 0),
			MaxApplications:     &maxApplications,
			Status:              model.ScholarshipStatusActive,
			CreatedByID:         admin.ID,
		},
		{
			Title:               "Community Leadership Award",
			Description:         "For students with a record of community service.",
			Amount:              decimal.NewFromInt(2500),
			Currency:            "USD",
			ApplicationDeadline: time.Now().AddDate(0, 6, 0),
			Status:              model.ScholarshipStatusActive,
			CreatedByID:         admin.ID,
		},
	}

	for _, s := range samples {
		scheme := s
		if err := repo.Create(ctx, &scheme); err != nil {
			return err
		}
		log.Printf("seeded scholarship %q", scheme.Title)
	}
	return nil
}
