package usecase

import (
	"context"
	"errors"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/pkg/receipt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotTransactionParty = errors.New("transaction does not belong to you")
)

// TransactionUsecase is the read side of the payment ledger.
type TransactionUsecase interface {
	ListTransactions(ctx context.Context, session *entity.Session) ([]dto.TransactionResponse, error)
	GetReceipt(ctx context.Context, session *entity.Session, transactionID uuid.UUID) ([]byte, error)
}

type transactionUsecase struct {
	log             *logrus.Logger
	transactionRepo repository.TransactionRepository
	appointmentRepo repository.AppointmentRepository
}

func NewTransactionUsecase(
	log *logrus.Logger,
	transactionRepo repository.TransactionRepository,
	appointmentRepo repository.AppointmentRepository,
) TransactionUsecase {
	return &transactionUsecase{
		log:             log,
		transactionRepo: transactionRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *transactionUsecase) ListTransactions(ctx context.Context, session *entity.Session) ([]dto.TransactionResponse, error) {
	var (
		txs []entity.Transaction
		err error
	)
	if session.IsDoctor() {
		txs, err = u.transactionRepo.FindByDoctorID(ctx, session.UserID)
	} else {
		txs, err = u.transactionRepo.FindByPatientID(ctx, session.UserID)
	}
	if err != nil {
		u.log.Warnf("Failed to list transactions: %+v", err)
		return nil, err
	}
	return converter.TransactionsToResponses(txs), nil
}

// GetReceipt renders a PDF receipt for a transaction the caller took part in.
func (u *transactionUsecase) GetReceipt(ctx context.Context, session *entity.Session, transactionID uuid.UUID) ([]byte, error) {
	tx, err := u.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		u.log.Warnf("Failed to find transaction: %+v", err)
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if !tx.IsParty(session.UserID) {
		return nil, ErrNotTransactionParty
	}

	data := receipt.Data{
		TransactionID: tx.ID.String(),
		Hash:          tx.Hash,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Status:        tx.Status,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
	if tx.Doctor != nil {
		data.DoctorName = tx.Doctor.FullName
	}
	if tx.Patient != nil {
		data.PatientName = tx.Patient.FullName
	}

	if tx.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(ctx, *tx.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment for receipt: %+v", err)
			return nil, err
		}
		if appointment != nil {
			data.AppointmentID = appointment.ID.String()
			data.AppointmentDate = appointment.Date.Format(converter.DateLayout)
			data.AppointmentTime = appointment.Time
		}
	}

	pdf, err := receipt.Render(data)
	if err != nil {
		u.log.Errorf("Failed to render receipt: %+v", err)
		return nil, err
	}
	return pdf, nil
}
