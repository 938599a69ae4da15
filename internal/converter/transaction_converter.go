package converter

import (
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
)

func TransactionToResponse(t *entity.Transaction) dto.TransactionResponse {
	response := dto.TransactionResponse{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		DoctorID:      t.DoctorID,
		PatientID:     t.PatientID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Hash:          t.Hash,
		Description:   t.Description,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}

	if t.Doctor != nil {
		response.DoctorName = t.Doctor.FullName
	}
	if t.Patient != nil {
		response.PatientName = t.Patient.FullName
	}

	return response
}

func TransactionsToResponses(txs []entity.Transaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = TransactionToResponse(&txs[i])
	}
	return responses
}
