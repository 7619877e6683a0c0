package handler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Subject{},
		&models.Material{},
		&models.Chapter{},
		&models.SubChapter{},
		&models.SubChapterProgress{},
		&models.MaterialProgress{},
		&models.Assessment{},
		&models.Question{},
		&models.Answer{},
		&models.Score{},
		&models.Simulation{},
		&models.SimulationProgress{},
		&models.UploadRecord{},
	))

	return db
}
