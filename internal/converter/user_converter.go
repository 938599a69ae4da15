package converter

import (
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes DoctorProfile and PatientProfile if they are loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Phone:         user.Phone,
		Role:          user.Role.String(),
		WalletAddress: user.RegisteredWallet(),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			Specialization: user.DoctorProfile.Specialization,
			RegistrationID: user.DoctorProfile.RegistrationID,
			IsVerified:     user.DoctorProfile.IsVerified,
		}
	}

	if user.PatientProfile != nil {
		response.PatientProfile = &dto.PatientProfileResponse{
			Age:      user.PatientProfile.Age,
			Gender:   user.PatientProfile.Gender,
			DeviceID: user.PatientProfile.DeviceID,
		}
	}

	return response
}
