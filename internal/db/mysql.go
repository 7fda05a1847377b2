package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"healthtracker/internal/model"
)

// NewMySQL returns a connected GORM DB instance. Driver errors are
// translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.WeightEntry{},
		&model.ExerciseEntry{},
		&model.DietEntry{},
		&model.Group{},
		&model.GroupMember{},
		&model.Goal{},
	}
}

// Migrate creates or updates the schema. When reset is set all tables are
// dropped first.
func Migrate(db *gorm.DB, reset bool, log *logrus.Logger) error {
	models := Models()
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.WithError(err).Warn("failed to drop table (may not exist)")
			}
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
