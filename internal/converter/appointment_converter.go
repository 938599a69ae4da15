package converter

import (
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
)

// DateLayout is the wire format of appointment dates.
const DateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Doctor and patient names are filled when the relationships are loaded.
func AppointmentToResponse(a *entity.Appointment) dto.AppointmentResponse {
	response := dto.AppointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date.Format(DateLayout),
		Time:      a.Time,
		Type:      a.Type,
		Status:    string(a.Status),
		MeetingID: a.MeetingID,
		Fee:       a.Fee,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.Doctor != nil {
		response.DoctorName = a.Doctor.FullName
	}
	if a.Patient != nil {
		response.PatientName = a.Patient.FullName
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = AppointmentToResponse(&appointments[i])
	}
	return responses
}
