package usecase

import (
	"context"
	"errors"
	"strings"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"
	"go-telehealth/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists          = errors.New("email already exists")
	ErrRegistrationIDAlreadyExists = errors.New("registration id already exists")
	ErrInvalidCredentials          = errors.New("invalid email or password")
	ErrInvalidToken                = errors.New("invalid or expired token")
	ErrTokenRevoked                = errors.New("token has been revoked")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
}

type authUsecase struct {
	log                *logrus.Logger
	transactor         repository.Transactor
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	tokenStore         service.TokenStore
}

func NewAuthUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		log:                log,
		transactor:         transactor,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		tokenStore:         tokenStore,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	user, err := u.newUser(req.Email, req.Password, req.FullName, req.Phone, req.WalletAddress, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	profile := &entity.PatientProfile{
		Age:      req.Age,
		Gender:   req.Gender,
		DeviceID: req.DeviceID,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.createUser(ctx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := u.patientProfileRepo.Create(ctx, profile); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		return nil, err
	}

	user.PatientProfile = profile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	user, err := u.newUser(req.Email, req.Password, req.FullName, req.Phone, req.WalletAddress, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}

	profile := &entity.DoctorProfile{
		Specialization: req.Specialization,
		RegistrationID: req.RegistrationID,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.createUser(ctx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := u.doctorProfileRepo.Create(ctx, profile); err != nil {
			if isDuplicateKeyError(err, "registration_id") {
				return ErrRegistrationIDAlreadyExists
			}
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		return nil, err
	}

	user.DoctorProfile = profile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) newUser(email, password, fullName, phone, wallet string, role entity.Role) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashedPassword),
		FullName: fullName,
		Phone:    phone,
		Role:     role,
	}
	if wallet != "" {
		user.WalletAddress = &wallet
	}
	return user, nil
}

func (u *authUsecase) createUser(ctx context.Context, user *entity.User) error {
	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	// Login auditing is best effort; a failed write must not block sign-in.
	_ = u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	if _, err := u.tokenStore.Revoke(ctx, service.AccessTokenKind, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
		// Nothing of ours to revoke
		return nil
	}
	if _, err := u.tokenStore.Revoke(ctx, service.RefreshTokenKind, userID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Rotate: deleting the old id is the single-use check, so only one
	// concurrent refresh with the same token gets a new pair.
	revoked, err := u.tokenStore.Revoke(ctx, service.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to revoke old refresh token: %+v", err)
		return nil, err
	}
	if !revoked {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.Role)
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, service.AccessTokenKind, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, service.RefreshTokenKind, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
