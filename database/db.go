package database

import (
	"fmt"

	"energy-insights/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const importBatchSize = 500

// Open connects to the SQLite file at path and makes sure the insights table
// exists. Only the import path writes, so only it should call Open.
func Open(path string) (*gorm.DB, error) {
	db, err := open(path, path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.InsightRecord{}); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

// OpenReadOnly opens an existing SQLite file for reading. The schema is left
// as found; columns the file lacks load as zero values.
func OpenReadOnly(path string) (*gorm.DB, error) {
	return open(path, "file:"+path+"?mode=ro")
}

func open(path, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadInsights returns every stored record in insertion order.
func LoadInsights(db *gorm.DB) ([]models.InsightRecord, error) {
	var records []models.InsightRecord
	if err := db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load insights: %w", err)
	}
	return records, nil
}

// ImportInsights replaces the stored dataset with records.
func ImportInsights(db *gorm.DB, records []models.InsightRecord) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.InsightRecord{}).Error; err != nil {
			return fmt.Errorf("clear insights: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]models.InsightRecord, len(records))
		copy(rows, records)
		for i := range rows {
			rows[i].ID = 0
		}
		if err := tx.CreateInBatches(&rows, importBatchSize).Error; err != nil {
			return fmt.Errorf("insert insights: %w", err)
		}
		return nil
	})
}

// CountInsights reports the number of stored records.
func CountInsights(db *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(&models.InsightRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count insights: %w", err)
	}
	return n, nil
}
