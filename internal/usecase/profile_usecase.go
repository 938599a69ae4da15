package usecase

import (
	"context"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"

	"github.com/sirupsen/logrus"
)

// ProfileUsecase reads and edits the caller's own account.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, session *entity.Session) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, session *entity.Session, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type profileUsecase struct {
	log                *logrus.Logger
	transactor         repository.Transactor
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewProfileUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) ProfileUsecase {
	return &profileUsecase{
		log:                log,
		transactor:         transactor,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, session *entity.Session) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByIDWithProfile(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// UpdateProfile applies the editable fields. Email, role, registration id and
// verification are not reachable from the request.
func (u *profileUsecase) UpdateProfile(ctx context.Context, session *entity.Session, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByIDWithProfile(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	before := converter.UserToResponse(user)

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.WalletAddress != nil {
		if *req.WalletAddress == "" {
			user.WalletAddress = nil
		} else {
			wallet := *req.WalletAddress
			user.WalletAddress = &wallet
		}
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Update(ctx, user); err != nil {
			u.log.Warnf("Failed to update user: %+v", err)
			return err
		}

		switch user.Role {
		case entity.RolePatient:
			if err := u.updatePatientProfile(ctx, user, req); err != nil {
				return err
			}
		case entity.RoleDoctor:
			if err := u.updateDoctorProfile(ctx, user, req); err != nil {
				return err
			}
		}

		return u.auditService.LogUpdate(ctx, user.ID, entity.AuditActionProfileUpdate, "user", user.ID.String(), before, converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *profileUsecase) updatePatientProfile(ctx context.Context, user *entity.User, req *dto.UpdateProfileRequest) error {
	if req.Age == nil && req.Gender == nil && req.DeviceID == nil {
		return nil
	}

	profile := user.PatientProfile
	isNew := profile == nil
	if isNew {
		profile = &entity.PatientProfile{UserID: user.ID}
	}
	if req.Age != nil {
		age := *req.Age
		profile.Age = &age
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.DeviceID != nil {
		profile.DeviceID = *req.DeviceID
	}

	var err error
	if isNew {
		err = u.patientProfileRepo.Create(ctx, profile)
	} else {
		err = u.patientProfileRepo.Update(ctx, profile)
	}
	if err != nil {
		u.log.Warnf("Failed to save patient profile: %+v", err)
		return err
	}

	user.PatientProfile = profile
	return nil
}

func (u *profileUsecase) updateDoctorProfile(ctx context.Context, user *entity.User, req *dto.UpdateProfileRequest) error {
	if req.Specialization == nil || user.DoctorProfile == nil {
		return nil
	}

	user.DoctorProfile.Specialization = *req.Specialization
	if err := u.doctorProfileRepo.Update(ctx, user.DoctorProfile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return err
	}
	return nil
}
