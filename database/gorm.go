package database

import (
	"fmt"
	"log"
	"time"

	"github.com/muallimisoniy/api/config"
	"github.com/muallimisoniy/api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface the rest of the app depends on
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB

	// Settings access used outside HTTP handlers (telegram, cron)
	GetSetting(key string) (string, error)
	SetSetting(key, value string, updatedBy *uint) error

	// Book access
	GetBook() (*model.Book, error)
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// NewGORMStore wraps an existing connection (used by tests and CLIs)
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Init runs AutoMigrate for all models
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Book content
		&model.Book{},
		&model.Chapter{},
		&model.Page{},
		&model.TextUnit{},
		&model.PageVersion{},
		&model.Section{},

		// Audio
		&model.AudioFile{},
		&model.AudioSegment{},
		&model.UnitSegmentMapping{},

		// Feedback
		&model.FeedbackSubmission{},

		// Admin & system
		&model.AdminUser{},
		&model.SystemSetting{},
		&model.AuditLog{},
		&model.ManifestVersion{},
		&model.CronJobLog{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in handlers/services
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetSetting reads one system setting value; missing keys return ""
func (s *GORMStore) GetSetting(key string) (string, error) {
	var setting model.SystemSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SetSetting upserts one system setting
func (s *GORMStore) SetSetting(key, value string, updatedBy *uint) error {
	var setting model.SystemSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return s.db.Create(&model.SystemSetting{
			Key:       key,
			Value:     value,
			UpdatedBy: updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}

	setting.Value = value
	setting.UpdatedBy = updatedBy
	return s.db.Save(&setting).Error
}

// GetBook returns the single book row, or nil when not seeded yet
func (s *GORMStore) GetBook() (*model.Book, error) {
	var book model.Book
	err := s.db.First(&book).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}
