package models

import (
	"tooltipper/db"

	"go.uber.org/zap"
)

func Init() {
	if err := Migrate(); err != nil {
		zap.L().Fatal("auto-migrate", zap.Error(err))
	}
}

func Migrate() error {
	return db.Instance.AutoMigrate(&Photo{}, &Tooltip{})
}
