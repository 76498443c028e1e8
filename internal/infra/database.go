package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/modulartear/posventa/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create or update all tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations is also called directly by integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Company{},
		&model.CompanySettings{},
		&model.APISettings{},
		&model.Employee{},
		&model.Product{},
		&model.CashRegister{},
		&model.CashRegisterSession{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Customer{},
		&model.CustomerPoints{},
		&model.PointTransaction{},
		&model.LoyaltyProgram{},
	)
}
