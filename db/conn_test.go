package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoURI(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("db.host", "db")
	assert.Equal(t, "mongodb://db:27017", MongoURI())

	viper.Set("db.port", 27018)
	viper.Set("db.user", "root")
	viper.Set("db.password", "p@ss")
	assert.Equal(t, "mongodb://root:p%40ss@db:27018", MongoURI())
}

func TestPostgresDSN(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("db.host", "localhost")
	viper.Set("db.user", "files")
	viper.Set("db.name", "files_manager")

	assert.Equal(t, "host=localhost port=5432 user=files password= dbname=files_manager sslmode=disable", PostgresDSN())
}

func TestNewSQLite(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("db.driver", "sqlite")
	viper.Set("db.path", filepath.Join(t.TempDir(), "database.db"))

	s, err := New(context.Background())
	if err != nil {
		// Containers refuse to create the file themselves
		t.Skipf("sqlite unavailable here: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Ping(context.Background()))
}
