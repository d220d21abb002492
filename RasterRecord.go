package GeoIndex

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 任务状态
const (
	RecordRunning = 0
	RecordDone    = 1
	RecordFailed  = 2
)

// RasterRecord 指数计算任务记录
type RasterRecord struct {
	ID           uint   `gorm:"primarykey"`
	TaskID       string `gorm:"uniqueIndex;size:36"`
	TypeName     string `gorm:"size:32"`
	SourcePath   string
	OutputPath   string
	RedBand      int
	NIRBand      int
	Status       int    `gorm:"index"`
	ErrorKind    string `gorm:"size:32"`
	ErrorMessage string
	CRS          string
	Width        int
	Height       int
	Min          float64
	Max          float64
	Mean         float64
	Footprint    string // GeoJSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Catalog 基于SQLite的任务记录库
type Catalog struct {
	db *gorm.DB
}

// OpenCatalog 打开（或创建）任务记录库
func OpenCatalog(path string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if err := db.AutoMigrate(&RasterRecord{}); err != nil {
		closeGorm(db)
		return nil, fmt.Errorf("migrate catalog %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

// Close 关闭记录库
func (c *Catalog) Close() error {
	return closeGorm(c.db)
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Begin 记录任务开始
func (c *Catalog) Begin(taskID string, req IndexRequest) (*RasterRecord, error) {
	record := &RasterRecord{
		TaskID:     taskID,
		TypeName:   "ndvi",
		SourcePath: req.InputPath,
		OutputPath: req.OutputPath,
		RedBand:    req.RedBand,
		NIRBand:    req.NIRBand,
		Status:     RecordRunning,
	}
	if err := c.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("create task record: %w", err)
	}
	return record, nil
}

// Finish 记录任务结果，runErr 非空时标记为失败
func (c *Catalog) Finish(taskID string, report *IndexReport, runErr error) error {
	updates := map[string]interface{}{}
	if runErr != nil {
		updates["status"] = RecordFailed
		updates["error_kind"] = KindOf(runErr).String()
		updates["error_message"] = runErr.Error()
	} else {
		updates["status"] = RecordDone
		updates["error_kind"] = ""
		updates["error_message"] = ""
	}
	if report != nil && runErr == nil {
		updates["crs"] = report.Metadata.CRS
		updates["width"] = report.Metadata.Width
		updates["height"] = report.Metadata.Height
		updates["min"] = report.Stats.Min
		updates["max"] = report.Stats.Max
		updates["mean"] = report.Stats.Mean
		if fp, err := FootprintGeoJSON(report.Metadata); err == nil {
			updates["footprint"] = string(fp)
		}
	}

	result := c.db.Model(&RasterRecord{}).Where("task_id = ?", taskID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update task record %s: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update task record %s: not found", taskID)
	}
	return nil
}

// Get 按任务ID查询
func (c *Catalog) Get(taskID string) (*RasterRecord, error) {
	var record RasterRecord
	err := c.db.Where("task_id = ?", taskID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %s: %w", taskID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("query task %s: %w", taskID, err)
	}
	return &record, nil
}

// List 按时间倒序列出最近的任务，limit<=0 表示全部
func (c *Catalog) List(limit int) ([]RasterRecord, error) {
	var records []RasterRecord
	q := c.db.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return records, nil
}
