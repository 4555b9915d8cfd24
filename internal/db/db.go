package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudkitchen/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dsnParams = "charset=utf8mb4&parseTime=True&loc=Local"

// socketAddr resolves DB_HOST into a driver address. A Cloud SQL instance
// name wins over DB_HOST; explicit tcp()/unix() wrappers pass through.
func socketAddr(cfg *config.Config) string {
	switch {
	case cfg.InstanceConnectionName != "":
		return fmt.Sprintf("unix(/cloudsql/%s)", cfg.InstanceConnectionName)
	case strings.HasPrefix(cfg.DBHost, "tcp("), strings.HasPrefix(cfg.DBHost, "unix("):
		return cfg.DBHost
	case strings.HasPrefix(cfg.DBHost, "/"):
		return fmt.Sprintf("unix(%s)", cfg.DBHost)
	default:
		return fmt.Sprintf("tcp(%s:%s)", cfg.DBHost, cfg.DBPort)
	}
}

func BuildDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@%s/%s?%s", cfg.DBUser, cfg.DBPassword, socketAddr(cfg), cfg.DBName, dsnParams)
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	db, err := gorm.Open(mysql.Open(BuildDSN(cfg)), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMins) * time.Minute)

	return db, nil
}
