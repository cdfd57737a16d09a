package config

import (
	"fmt"
	"time"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database. SQL warnings and errors are written
// through utils.InfoLogger, so they follow LOG_FILE and LOG_JSON.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.GinMode),
	})
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func newGormLogger(ginMode string) logger.Interface {
	level := logger.Warn
	if ginMode == "debug" {
		level = logger.Info
	}
	if utils.InfoLogger == nil {
		return logger.Default.LogMode(level)
	}
	return logger.New(utils.InfoLogger.WithField("component", "gorm"), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
