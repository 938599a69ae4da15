package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-telehealth/internal/converter"
	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"
	"go-telehealth/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotAppointmentParty = errors.New("appointment does not belong to you")
	ErrInvalidTransition   = errors.New("appointment status does not allow this action")
	ErrAppointmentConflict = errors.New("appointment was modified by another request")
	ErrInvalidStatus       = errors.New("status must be accepted or rejected")
	ErrInvalidDate         = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTime         = errors.New("invalid time format, use HH:MM or HH:MM:SS")
	ErrInvalidFee          = errors.New("fee must be greater than zero")
	ErrWalletMismatch      = errors.New("connected wallet does not match the registered wallet")
	ErrAmountMismatch      = errors.New("payment amount must be positive and equal to the appointment fee")
	ErrPaymentInProgress   = errors.New("a payment for this appointment is already in progress")
	ErrMeetingNotReady     = errors.New("meeting is available once the appointment is paid")
)

const timeLayout = "15:04:05"

// AppointmentUsecase owns the appointment lifecycle:
// pending -> accepted -> paid -> completed, or pending -> rejected.
type AppointmentUsecase interface {
	RequestAppointment(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, session *entity.Session, appointmentID uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error)
	PayAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID, req *dto.PayAppointmentRequest) (*dto.PayAppointmentResponse, error)
	CompleteAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	JoinMeeting(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.MeetingResponse, error)
	ListAppointments(ctx context.Context, session *entity.Session) ([]dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	appointmentRepo repository.AppointmentRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	payLocker       service.PaymentLocker
	ids             service.IdentifierGenerator
	publisher       rabbitmq.Publisher
	meetingBaseURL  string
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	appointmentRepo repository.AppointmentRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	payLocker service.PaymentLocker,
	ids service.IdentifierGenerator,
	publisher rabbitmq.Publisher,
	meetingBaseURL string,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		payLocker:       payLocker,
		ids:             ids,
		publisher:       publisher,
		meetingBaseURL:  strings.TrimRight(meetingBaseURL, "/"),
		now:             time.Now,
	}
}

// RequestAppointment creates a pending appointment. Identical requests are not
// deduplicated: each call yields its own row.
func (u *appointmentUsecase) RequestAppointment(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !session.IsPatient() {
		return nil, ErrPatientOnly
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	date, err := time.Parse(converter.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, ErrInvalidDate
	}
	clock, err := normalizeTime(req.Time)
	if err != nil {
		return nil, err
	}
	if req.Fee != nil && !req.Fee.IsPositive() {
		return nil, ErrInvalidFee
	}

	appointmentType := strings.TrimSpace(req.Type)
	if appointmentType == "" {
		appointmentType = entity.AppointmentTypeConsultation
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil || doctor.Role != entity.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		DoctorID:  doctorID,
		PatientID: session.UserID,
		Date:      date,
		Time:      clock,
		Type:      appointmentType,
		Status:    entity.AppointmentStatusPending,
		Fee:       req.Fee,
		Version:   1,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, session.UserID, entity.AuditActionAppointmentRequest, "appointment", appointment.ID.String(), map[string]interface{}{
			"doctor_id": doctorID,
			"date":      req.Date,
			"time":      clock,
			"type":      appointmentType,
		})
	})
	if err != nil {
		return nil, err
	}

	appointment.Doctor = doctor
	u.log.Infof("Appointment %s requested by %s", appointment.ID, session.UserID)
	u.publish(ctx, rabbitmq.RoutingAppointmentRequested, appointment, nil, nil)

	response := converter.AppointmentToResponse(appointment)
	return &response, nil
}

// UpdateStatus lets the addressed doctor accept or reject a pending appointment.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, session *entity.Session, appointmentID uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	if target != entity.AppointmentStatusAccepted && target != entity.AppointmentStatusRejected {
		return nil, ErrInvalidStatus
	}
	if !session.IsDoctor() {
		return nil, ErrDoctorOnly
	}

	appointment, err := u.findOwned(ctx, appointmentID, func(a *entity.Appointment) bool { return a.DoctorID == session.UserID })
	if err != nil {
		return nil, err
	}

	action := entity.AuditActionAppointmentAccept
	routingKey := rabbitmq.RoutingAppointmentAccepted
	if target == entity.AppointmentStatusRejected {
		action = entity.AuditActionAppointmentReject
		routingKey = rabbitmq.RoutingAppointmentRejected
	}

	if err := u.transition(ctx, session, appointment, target, nil, action, nil); err != nil {
		return nil, err
	}

	u.publish(ctx, routingKey, appointment, nil, nil)
	response := converter.AppointmentToResponse(appointment)
	return &response, nil
}

// PayAppointment settles an accepted appointment. The transaction row, the move
// to paid with a fresh meeting id and the audit entry commit together or not at all.
func (u *appointmentUsecase) PayAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID, req *dto.PayAppointmentRequest) (*dto.PayAppointmentResponse, error) {
	if !session.IsPatient() {
		return nil, ErrPatientOnly
	}
	if !session.HasWallet() {
		return nil, ErrWalletNotConnected
	}

	payer, err := u.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if payer == nil {
		return nil, ErrUserNotFound
	}
	if registered := payer.RegisteredWallet(); registered != "" && registered != session.ConnectedWallet {
		return nil, ErrWalletMismatch
	}

	appointment, err := u.findOwned(ctx, appointmentID, func(a *entity.Appointment) bool { return a.PatientID == session.UserID })
	if err != nil {
		return nil, err
	}
	if !appointment.Status.CanTransitionTo(entity.AppointmentStatusPaid) {
		return nil, ErrInvalidTransition
	}
	if !req.Amount.IsPositive() || (appointment.Fee != nil && !req.Amount.Equal(*appointment.Fee)) {
		return nil, ErrAmountMismatch
	}

	release, err := u.payLocker.Acquire(ctx, appointment.ID)
	switch {
	case errors.Is(err, service.ErrLockHeld):
		return nil, ErrPaymentInProgress
	case err != nil:
		// The version check in transition still admits a single payment
		u.log.Warnf("Payment lock unavailable for appointment %s, relying on version check: %+v", appointment.ID, err)
	default:
		defer release()
	}

	hash, err := u.ids.TransactionHash()
	if err != nil {
		u.log.Errorf("Failed to generate transaction hash: %+v", err)
		return nil, err
	}
	meetingID, err := u.ids.MeetingID()
	if err != nil {
		u.log.Errorf("Failed to generate meeting id: %+v", err)
		return nil, err
	}

	tx := &entity.Transaction{
		AppointmentID: &appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		Amount:        req.Amount,
		Type:          entity.TransactionTypeReceived,
		Hash:          hash,
		Description:   "Payment for " + appointment.Type + " on " + appointment.Date.Format(converter.DateLayout) + " " + appointment.Time,
		Status:        entity.TransactionStatusCompleted,
	}

	record := func(ctx context.Context) error {
		if err := u.transactionRepo.Create(ctx, tx); err != nil {
			u.log.Warnf("Failed to create transaction: %+v", err)
			return err
		}
		return nil
	}

	if err := u.transition(ctx, session, appointment, entity.AppointmentStatusPaid, &meetingID, entity.AuditActionAppointmentPay, record); err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s paid with transaction %s", appointment.ID, tx.ID)
	amount := tx.Amount
	u.publish(ctx, rabbitmq.RoutingAppointmentPaid, appointment, &tx.ID, &amount)

	return &dto.PayAppointmentResponse{
		Appointment: converter.AppointmentToResponse(appointment),
		Transaction: converter.TransactionToResponse(tx),
	}, nil
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	if !session.IsDoctor() {
		return nil, ErrDoctorOnly
	}

	appointment, err := u.findOwned(ctx, appointmentID, func(a *entity.Appointment) bool { return a.DoctorID == session.UserID })
	if err != nil {
		return nil, err
	}

	if err := u.transition(ctx, session, appointment, entity.AppointmentStatusCompleted, nil, entity.AuditActionAppointmentComplete, nil); err != nil {
		return nil, err
	}

	u.publish(ctx, rabbitmq.RoutingAppointmentCompleted, appointment, nil, nil)
	response := converter.AppointmentToResponse(appointment)
	return &response, nil
}

// JoinMeeting returns the video room of a paid appointment to either party.
func (u *appointmentUsecase) JoinMeeting(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.MeetingResponse, error) {
	appointment, err := u.findOwned(ctx, appointmentID, func(a *entity.Appointment) bool { return a.IsParty(session.UserID) })
	if err != nil {
		return nil, err
	}
	if !appointment.Status.HasMeeting() || appointment.MeetingRoom() == "" {
		return nil, ErrMeetingNotReady
	}

	return &dto.MeetingResponse{
		AppointmentID: appointment.ID,
		MeetingID:     appointment.MeetingRoom(),
		URL:           u.meetingBaseURL + "/" + appointment.MeetingRoom(),
	}, nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, session *entity.Session) ([]dto.AppointmentResponse, error) {
	var (
		appointments []entity.Appointment
		err          error
	)
	if session.IsDoctor() {
		appointments, err = u.appointmentRepo.FindByDoctorID(ctx, session.UserID)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientID(ctx, session.UserID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, session *entity.Session, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, appointmentID, func(a *entity.Appointment) bool { return a.IsParty(session.UserID) })
	if err != nil {
		return nil, err
	}
	response := converter.AppointmentToResponse(appointment)
	return &response, nil
}

func (u *appointmentUsecase) findOwned(ctx context.Context, id uuid.UUID, owns func(*entity.Appointment) bool) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !owns(appointment) {
		return nil, ErrNotAppointmentParty
	}
	return appointment, nil
}

// transition moves appointment to target inside one DB transaction. before, when
// set, runs first in the same transaction. The status write only lands if the row
// still has the status and version that were read; otherwise ErrAppointmentConflict.
// On success appointment is updated in place.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	session *entity.Session,
	appointment *entity.Appointment,
	target entity.AppointmentStatus,
	meetingID *string,
	action string,
	before func(ctx context.Context) error,
) error {
	if !appointment.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}

	change := repository.StatusChange{
		ID:        appointment.ID,
		From:      appointment.Status,
		To:        target,
		Version:   appointment.Version,
		MeetingID: meetingID,
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if before != nil {
			if err := before(ctx); err != nil {
				return err
			}
		}

		affected, err := u.appointmentRepo.UpdateStatus(ctx, change)
		if err != nil {
			u.log.Warnf("Failed to update appointment status: %+v", err)
			return err
		}
		if affected == 0 {
			return ErrAppointmentConflict
		}

		return u.auditService.LogUpdate(ctx, session.UserID, action, "appointment", appointment.ID.String(),
			map[string]interface{}{"status": change.From, "version": change.Version},
			map[string]interface{}{"status": change.To, "version": change.Version + 1},
		)
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentConflict) {
			u.log.Infof("Appointment %s changed concurrently, %s rejected", appointment.ID, target)
		}
		return err
	}

	appointment.Status = target
	appointment.Version++
	if meetingID != nil {
		appointment.MeetingID = meetingID
	}
	appointment.UpdatedAt = u.now()
	u.log.Infof("Appointment %s moved %s -> %s", appointment.ID, change.From, target)
	return nil
}

// publish emits a lifecycle event. Delivery is best effort: the DB state is
// already committed and is the source of truth.
func (u *appointmentUsecase) publish(ctx context.Context, routingKey string, a *entity.Appointment, txID *uuid.UUID, amount *decimal.Decimal) {
	event := rabbitmq.AppointmentEvent{
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		Status:        string(a.Status),
		Date:          a.Date.Format(converter.DateLayout),
		Time:          a.Time,
		MeetingID:     a.MeetingRoom(),
		TransactionID: txID,
		Amount:        amount,
		Timestamp:     u.now(),
	}
	if err := u.publisher.Publish(ctx, routingKey, event); err != nil {
		u.log.Warnf("Failed to publish %s for appointment %s: %+v", routingKey, a.ID, err)
	}
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", ErrInvalidTime
}
