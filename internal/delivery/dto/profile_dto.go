package dto

// UpdateProfileRequest carries the editable account fields. Nil means unchanged;
// an empty wallet_address unbinds the wallet.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=2"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	WalletAddress *string `json:"wallet_address" validate:"omitempty,eth_addr|len=0"`

	// Patient only
	Age      *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DeviceID *string `json:"device_id" validate:"omitempty,max=100"`

	// Doctor only
	Specialization *string `json:"specialization" validate:"omitempty,min=2,max=100"`
}

type PatientProfileResponse struct {
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
}

type DoctorProfileResponse struct {
	Specialization string `json:"specialization"`
	RegistrationID string `json:"registration_id"`
	IsVerified     bool   `json:"is_verified"`
}
