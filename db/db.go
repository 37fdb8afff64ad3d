package db

import (
	"errors"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens MySQL when mysqlDSN is set, SQLite otherwise.
func Init(mysqlDSN, sqliteFile string) {
	db, err := Open(mysqlDSN, sqliteFile)
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

func Open(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if mysqlDSN != "" {
		dialector = mysql.Open(mysqlDSN)
	} else if sqliteFile != "" {
		// Foreign keys are off by default in SQLite
		sep := "?"
		if strings.Contains(sqliteFile, "?") {
			sep = "&"
		}
		dialector = sqlite.Open(sqliteFile + sep + "_foreign_keys=on")
	} else {
		return nil, errors.New("no database configured: set MYSQL_DSN or SQLITE_FILE")
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
}
