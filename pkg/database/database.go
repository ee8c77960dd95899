package database

import (
	"fmt"
	"log"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.SessionLog{},
		&model.QueryAttemptLog{},
		&model.LevelCompletion{},
		&model.PlayerProgress{},
		&model.LevelOverride{},
		&model.AnalyticsConfig{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Default suspect-scoring weights
	var count int64
	db.Model(&model.AnalyticsConfig{}).Count(&count)
	if count == 0 {
		defaults := []model.AnalyticsConfig{
			{ConfigKey: "weight_criminal_record", ConfigValue: 25, Description: "Points for having a prior criminal record"},
			{ConfigKey: "weight_crime_calls", ConfigValue: 10, Description: "Points per call during the crime window"},
			{ConfigKey: "weight_bank_presence", ConfigValue: 15, Description: "Points per CCTV sighting at the crime scene"},
			{ConfigKey: "weight_large_transaction", ConfigValue: 12, Description: "Points per above-average transaction"},
			{ConfigKey: "large_transaction_threshold", ConfigValue: 5000, Description: "Amount above which a transaction counts as large"},
		}
		for _, c := range defaults {
			db.Create(&c)
		}
	}

	return db, nil
}
