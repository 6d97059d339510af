package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for content reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error
	Count(ctx context.Context, status models.ReportStatus) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Omit("Reporter", "ReportedUser").Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Reporter").Preload("ReportedUser").First(&report, id).Error; err != nil {
		return nil, notFoundOr(err, "Report", id)
	}
	return &report, nil
}

// List returns reports newest first. An empty status lists every report.
func (r *reportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	limit, offset = clampPage(limit, offset, 50)
	q := readDB(r.db).WithContext(ctx).Preload("Reporter").Preload("ReportedUser")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []models.Report
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Report{ID: id}).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}

// Count counts reports with status, or all reports when status is empty.
func (r *reportRepository) Count(ctx context.Context, status models.ReportStatus) (int64, error) {
	q := readDB(r.db).WithContext(ctx).Model(&models.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
