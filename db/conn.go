// Package db opens the document store selected by db.driver
package db

import (
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/internal/store/gormstore"
	"bitwise74/files-api/internal/store/mongostore"
	"bitwise74/files-api/pkg/util"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormConfig = &gorm.Config{
	TranslateError: true,
	Logger:         logger.Default.LogMode(logger.Silent),
}

func New(ctx context.Context) (store.Store, error) {
	driver := viper.GetString("db.driver")
	zap.L().Debug("Opening database", zap.String("driver", driver))

	switch driver {
	case "mongo":
		return mongostore.Connect(ctx, MongoURI(), viper.GetString("db.name"))
	case "postgres":
		db, err := gorm.Open(postgres.Open(PostgresDSN()), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL, %w", err)
		}

		return gormstore.New(db)
	case "sqlite":
		return openSQLite(viper.GetString("db.path"))
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

func port(fallback int) string {
	if p := viper.GetInt("db.port"); p > 0 {
		return strconv.Itoa(p)
	}

	return strconv.Itoa(fallback)
}

func MongoURI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   viper.GetString("db.host") + ":" + port(27017),
	}

	if user := viper.GetString("db.user"); user != "" {
		u.User = url.UserPassword(user, viper.GetString("db.password"))
	}

	return u.String()
}

func PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		viper.GetString("db.host"),
		port(5432),
		viper.GetString("db.user"),
		viper.GetString("db.password"),
		viper.GetString("db.name"),
	)
}

func openSQLite(path string) (store.Store, error) {
	// If running in a docker container don't allow the sqlite file to be created.
	// The host should instead mount it using volumes
	if util.IsRunningInDocker() {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", path)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	return gormstore.New(db)
}
