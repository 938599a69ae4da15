package repository

import (
	"context"
	"errors"

	"go-telehealth/internal/domain/entity"
	domainRepo "go-telehealth/internal/domain/repository"
	"go-telehealth/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return database.Conn(ctx, r.db).Omit("Doctor", "Patient").Create(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := database.Conn(ctx, r.db).
		Preload("Doctor").Preload("Patient").
		Where("id = ?", id).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	err := database.Conn(ctx, r.db).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	err := database.Conn(ctx, r.db).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
