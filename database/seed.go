package database

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

func strPtr(s string) *string { return &s }

// DefaultFundingTypes follows the "Types of Awards" list of the Johns Hopkins
// Office of Research Administration handbook.
var DefaultFundingTypes = []model.FundingType{
	{Name: "Grant", ShortName: strPtr("Grant"), Notes: strPtr("Financial assistance for a project with minimal sponsor involvement.")},
	{Name: "Cooperative Agreement", ShortName: strPtr("Coop"), Notes: strPtr("Assistance with substantial programmatic involvement by the sponsor.")},
	{Name: "Contract", ShortName: strPtr("Contract"), Notes: strPtr("Procurement of specified deliverables for the sponsor's direct benefit.")},
	{Name: "Subaward", ShortName: strPtr("Subaward"), Notes: strPtr("Part of a prime award passed through another institution.")},
	{Name: "Fellowship", ShortName: strPtr("Fellowship"), Notes: strPtr("Support for the training of an individual.")},
	{Name: "Gift", ShortName: strPtr("Gift"), Notes: strPtr("Unrestricted support with no deliverables or reporting.")},
}

// DefaultLeadershipTitles are the titles offered for workgroup leads.
var DefaultLeadershipTitles = []model.LeadershipTitle{
	{Title: "Principal Investigator", TitleAbbrev: strPtr("PI")},
	{Title: "Director"},
	{Title: "Manager"},
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Info("Starting database seeding...")

	if err := s.SeedFundingTypes(); err != nil {
		return fmt.Errorf("failed to seed funding types: %w", err)
	}
	if err := s.SeedLeadershipTitles(); err != nil {
		return fmt.Errorf("failed to seed leadership titles: %w", err)
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

// SeedFundingTypes creates the standard award types that do not exist yet.
func (s *Seeder) SeedFundingTypes() error {
	for _, ft := range DefaultFundingTypes {
		ft := ft
		result := s.db.Where(model.FundingType{Name: ft.Name}).FirstOrCreate(&ft)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Infof("Created funding type: %s", ft.Name)
		}
	}
	return nil
}

// SeedLeadershipTitles creates the default lead titles that do not exist yet.
func (s *Seeder) SeedLeadershipTitles() error {
	for _, title := range DefaultLeadershipTitles {
		title := title
		result := s.db.Where(model.LeadershipTitle{Title: title.Title}).FirstOrCreate(&title)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Infof("Created leadership title: %s", title.Title)
		}
	}
	return nil
}

// RunSeeds seeds db with the default reference data
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}
