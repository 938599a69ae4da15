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

// Doctor Profile Repository

type doctorProfileRepository struct {
	db *gorm.DB
}

func NewDoctorProfileRepository(db *gorm.DB) domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{db: db}
}

func (r *doctorProfileRepository) Create(ctx context.Context, profile *entity.DoctorProfile) error {
	return database.Conn(ctx, r.db).Omit("User").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := database.Conn(ctx, r.db).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll lists doctors, optionally filtered by specialization (case-insensitive substring).
func (r *doctorProfileRepository) FindAll(ctx context.Context, specialization string) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := database.Conn(ctx, r.db).Preload("User")
	if specialization != "" {
		query = query.Where("specialization ILIKE ?", "%"+specialization+"%")
	}
	if err := query.Order("specialization ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update writes the doctor-editable columns only; registration and verification stay untouched.
func (r *doctorProfileRepository) Update(ctx context.Context, profile *entity.DoctorProfile) error {
	return database.Conn(ctx, r.db).Model(&entity.DoctorProfile{}).
		Where("user_id = ?", profile.UserID).
		Update("specialization", profile.Specialization).Error
}

// Patient Profile Repository

type patientProfileRepository struct {
	db *gorm.DB
}

func NewPatientProfileRepository(db *gorm.DB) domainRepo.PatientProfileRepository {
	return &patientProfileRepository{db: db}
}

func (r *patientProfileRepository) Create(ctx context.Context, profile *entity.PatientProfile) error {
	return database.Conn(ctx, r.db).Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := database.Conn(ctx, r.db).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) Update(ctx context.Context, profile *entity.PatientProfile) error {
	return database.Conn(ctx, r.db).Save(profile).Error
}
