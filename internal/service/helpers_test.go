package service

import (
	"path/filepath"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createPerson(t *testing.T, db *gorm.DB, uid string, role model.PersonRole) *model.Person {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	p := &model.Person{
		UID:      uid,
		Name:     uid + " name",
		Email:    uid + "@example.com",
		Password: string(hashed),
		Role:     role,
		Balance:  1000,
	}
	require.NoError(t, repository.NewPersonRepository(db).Create(p))
	return p
}
