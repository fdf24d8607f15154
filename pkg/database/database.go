package database

import (
	"fmt"
	"os"
	"path/filepath"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 按配置选择驱动建立连接，不做迁移
func Open(cfg *config.DatabaseConfig, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		level = gormlogger.Info
	}

	db, err := Open(&cfg.Database, level)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Log.Info("Database migration completed")

	if err := Seed(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}

// Seed 空库时写入默认管理员、任务与测验成绩
func Seed(db *gorm.DB, cfg *config.Config) error {
	var personCount int64
	if err := db.Model(&model.Person{}).Count(&personCount).Error; err != nil {
		return err
	}
	if personCount == 0 && cfg.Admin.UID != "" {
		password := cfg.Admin.Password
		if password == "" {
			password = cfg.Reset.DefaultPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.Person{
			UID:      cfg.Admin.UID,
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: string(hashed),
			Role:     model.RoleAdmin,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		logger.Log.Info("Default admin created", zap.String("uid", admin.UID))
	}

	var questCount int64
	if err := db.Model(&model.Quest{}).Count(&questCount).Error; err != nil {
		return err
	}
	if questCount == 0 {
		defaultQuests := []model.Quest{
			{Name: "Java Fundamentals", Difficulty: model.QuestEasy, Permalink: "/quests/java-fundamentals", TotalSubmodules: 6, RewardPoints: 100},
			{Name: "Data Structures", Difficulty: model.QuestMedium, Permalink: "/quests/data-structures", TotalSubmodules: 5, RewardPoints: 200},
			{Name: "Full Stack Deployment", Difficulty: model.QuestHard, Permalink: "/quests/deployment", TotalSubmodules: 4, RewardPoints: 300},
		}
		if err := db.Create(&defaultQuests).Error; err != nil {
			return err
		}
	}

	var scoreCount int64
	if err := db.Model(&model.QuizScore{}).Count(&scoreCount).Error; err != nil {
		return err
	}
	if scoreCount == 0 {
		defaultScores := []model.QuizScore{
			{Username: "toby", Score: 8},
			{Username: "hop", Score: 6},
		}
		if err := db.Create(&defaultScores).Error; err != nil {
			return err
		}
	}

	return nil
}
