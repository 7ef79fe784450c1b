package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/localmarket/commercehub/internal/config"
	"github.com/localmarket/commercehub/internal/models"
)

// Database owns the gorm connection. Services receive it through their
// repositories rather than a package-level handle, so tests can swap in an
// isolated instance and main controls the lifecycle explicitly.
type Database struct {
	Conn *gorm.DB
}

func Connect(cfg *config.Config) (*Database, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Database{Conn: conn}, nil
}

func (d *Database) Migrate() error {
	return d.Conn.AutoMigrate(
		&models.User{},
		&models.Commerce{},
		&models.WebCommerce{},
		&models.Review{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
