package migration

import (
	"github.com/waselhq/wasel/internal/config"
	"github.com/waselhq/wasel/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
			return nil
		}

		// The SQL migrations target postgres; other dialects are for local
		// development and build their schema from the models.
		return seed.AutoMigrate(conn)
	}),
)
