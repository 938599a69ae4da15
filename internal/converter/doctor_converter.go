package converter

import (
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
)

// DoctorToResponse converts a DoctorProfile with its preloaded User to DoctorResponse DTO
func DoctorToResponse(profile *entity.DoctorProfile) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:             profile.UserID,
		FullName:       profile.User.FullName,
		Email:          profile.User.Email,
		Specialization: profile.Specialization,
		IsVerified:     profile.IsVerified,
		WalletAddress:  profile.User.RegisteredWallet(),
	}
}

// DoctorsToListResponse converts a slice of DoctorProfile to DoctorListResponse DTO
func DoctorsToListResponse(profiles []entity.DoctorProfile) *dto.DoctorListResponse {
	doctors := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		doctors[i] = DoctorToResponse(&profiles[i])
	}
	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}
}
