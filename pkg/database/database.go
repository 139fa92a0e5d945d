package database

import (
	"fmt"
	"log"

	"skillcheck_backend/internal/config"
	"skillcheck_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Technology{},
		&model.Test{},
		&model.Question{},
		&model.Participation{},
		&model.Submission{},
		&model.Response{},
		&model.TestTaken{},
		&model.TechnologyRate{},
		&model.GlobalStats{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认技术方向（为空时插入常用方向）
	var techCount int64
	db.Model(&model.Technology{}).Count(&techCount)
	if techCount == 0 {
		defaultTechnologies := []model.Technology{
			{Code: "go", Name: "Go", Description: "Go 后端开发", Enabled: true},
			{Code: "java", Name: "Java", Description: "Java 后端开发", Enabled: true},
			{Code: "javascript", Name: "JavaScript", Description: "前端与 Node.js 开发", Enabled: true},
			{Code: "python", Name: "Python", Description: "Python 开发与数据处理", Enabled: true},
			{Code: "sql", Name: "SQL", Description: "数据库与查询优化", Enabled: true},
			{Code: "devops", Name: "DevOps", Description: "CI/CD 与基础设施", Enabled: true},
		}
		for _, t := range defaultTechnologies {
			db.Create(&t)
		}
	}

	return db, nil
}
