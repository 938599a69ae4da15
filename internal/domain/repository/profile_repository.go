package repository

import (
	"context"

	"go-telehealth/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorProfileRepository interface {
	Create(ctx context.Context, profile *entity.DoctorProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context, specialization string) ([]entity.DoctorProfile, error)
	Update(ctx context.Context, profile *entity.DoctorProfile) error
}

type PatientProfileRepository interface {
	Create(ctx context.Context, profile *entity.PatientProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error)
	Update(ctx context.Context, profile *entity.PatientProfile) error
}
