package db

import (
	"leetcode_stats/common/config"
	"leetcode_stats/common/db/models"
	"leetcode_stats/lib/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewDB(config config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if config.InMemory {
		dialector = sqlite.Open(":memory:")
	} else {
		dialector = postgres.Open(config.Dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, logger.Error("Can't open database with dsn=\"%v\" because of %v", config.Dsn, err)
	}
	for _, model := range []any{
		&models.Problem{},
		&models.Tag{},
		&models.ProblemTag{},
		&models.Submission{},
	} {
		if err = db.AutoMigrate(model); err != nil {
			return nil, logger.Error("Can't migrate %T: %v", model, err)
		}
	}
	return db, nil
}
