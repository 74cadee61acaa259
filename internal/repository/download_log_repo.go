package repository

import (
	"modstore/internal/models"

	"gorm.io/gorm"
)

type DownloadLogRepository struct {
	db *gorm.DB
}

func NewDownloadLogRepository(db *gorm.DB) *DownloadLogRepository {
	return &DownloadLogRepository{db: db}
}

func (r *DownloadLogRepository) Create(l *models.DownloadLog) error {
	return r.db.Create(l).Error
}
