package database

import (
	"errors"
	"log"

	"modstore/config"
	"modstore/internal/models"

	"github.com/shopspring/decimal"
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

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Purchase{},
		&models.DownloadLog{},
	)
}

// SeedCatalog inserts the store catalog when the products table is empty.
// Product IDs are stable: they are referenced from purchase rows and double
// as artifact path prefixes.
func SeedCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	price := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			log.Printf("seed: bad price %q: %v", s, err)
		}
		return d
	}
	catalog := []models.Product{
		{ID: "vehicle-protection", Title: "Vehicle Protection System", Description: "Protect vehicles from damage in PvE environments.", Price: price("19.99"), Category: "vehicles", ImageURL: "/images/mods/vehicle-protection.jpg"},
		{ID: "advanced-zombies", Title: "Advanced Zombie System", Description: "Enhanced zombie AI with configurable hordes.", Price: price("24.99"), Category: "ai", ImageURL: "/images/mods/zombies.jpg"},
		{ID: "weather-system", Title: "Dynamic Weather System", Description: "Realistic weather patterns with visual effects.", Price: price("14.99"), Category: "environment", ImageURL: "/images/mods/weather.jpg"},
		{ID: "trader-plus", Title: "Advanced Trader Framework", Description: "Comprehensive trading system with customizable trader locations.", Price: price("29.99"), Category: "economy", ImageURL: "/images/mods/trader.jpg"},
		{ID: "base-building", Title: "Enhanced Base Building", Description: "Advanced base building features with new structures.", Price: price("24.99"), Category: "building", ImageURL: "/images/mods/base-building.jpg"},
		{ID: "vehicle-pack", Title: "Expanded Vehicle Pack", Description: "Collection of new and enhanced vehicles with custom handling.", Price: price("19.99"), Category: "vehicles", ImageURL: "/images/mods/vehicles.jpg"},
	}
	if err := db.Create(&catalog).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("seed: catalog insert failed: %v", err)
	}
}
