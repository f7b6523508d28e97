package database

import (
	"adchain/config"
	"adchain/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models. The unique indexes on
// the event tables and the balance check on ads are the load-bearing
// constraints; everything else is shape.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Advertiser{},
		&models.Ad{},
		&models.PortfolioSnapshot{},
		&models.AdImpression{},
		&models.AdInteraction{},
	)
}
