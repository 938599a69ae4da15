package repository

import (
	"context"

	"go-telehealth/internal/domain/entity"
	domainRepo "go-telehealth/internal/domain/repository"
	"go-telehealth/internal/infrastructure/database"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return database.Conn(ctx, r.db).Create(log).Error
}
