package repository

import (
	"context"

	"go-telehealth/internal/domain/entity"

	"github.com/google/uuid"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Transaction, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Transaction, error)
}
