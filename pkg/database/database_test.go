package database

import (
	"path/filepath"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenMigrateSeed(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(dir, "nested", "seed.db")},
		Admin:    config.AdminConfig{UID: "toby", Name: "Toby", Email: "toby@example.com"},
		Reset:    config.ResetConfig{DefaultPassword: "123Qwerty!"},
	}

	db, err := Open(&cfg.Database, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db, cfg))

	var admin model.Person
	require.NoError(t, db.Where("uid = ?", "toby").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("123Qwerty!")))

	var quests, scores int64
	db.Model(&model.Quest{}).Count(&quests)
	db.Model(&model.QuizScore{}).Count(&scores)
	assert.Equal(t, int64(3), quests)
	assert.Equal(t, int64(2), scores)

	// 再次执行不会重复写入
	require.NoError(t, Seed(db, cfg))
	db.Model(&model.Quest{}).Count(&quests)
	assert.Equal(t, int64(3), quests)
}

func TestSeedReturnsErrors(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "empty.db")}}
	db, err := Open(&cfg.Database, gormlogger.Silent)
	require.NoError(t, err)

	// 未迁移的库缺少表，错误应向上返回
	assert.Error(t, Seed(db, cfg))
}
