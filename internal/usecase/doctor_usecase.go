package usecase

import (
	"context"
	"errors"
	"strings"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// DoctorUsecase is the read-only doctor directory patients book from.
type DoctorUsecase interface {
	ListDoctors(ctx context.Context, specialization string) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
}

func NewDoctorUsecase(log *logrus.Logger, doctorProfileRepo repository.DoctorProfileRepository) DoctorUsecase {
	return &doctorUsecase{
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, specialization string) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx, strings.TrimSpace(specialization))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToListResponse(profiles), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	response := converter.DoctorToResponse(profile)
	return &response, nil
}
