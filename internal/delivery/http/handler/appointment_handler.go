package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-telehealth/internal/delivery/dto"
	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/usecase"
	"go-telehealth/pkg/response"
	"go-telehealth/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment handles a patient's booking request
// @Summary Request an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.RequestAppointment(r.Context(), session, &req)
	if err != nil {
		h.handleError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), session)
	if err != nil {
		h.handleError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), session, id)
	if err != nil {
		h.handleError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateStatus lets the assigned doctor accept or reject a pending appointment
// @Summary Accept or reject an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), session, id, entity.AppointmentStatus(req.Status))
	if err != nil {
		h.handleError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// PayAppointment settles an accepted appointment from the patient's connected wallet
// @Summary Pay for an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param X-Wallet-Address header string true "Connected wallet"
// @Param request body dto.PayAppointmentRequest true "Payment"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/pay [post]
func (h *AppointmentHandler) PayAppointment(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.PayAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.PayAppointment(r.Context(), session, id, &req)
	if err != nil {
		h.handleError(w, err, "Failed to pay appointment")
		return
	}

	response.Success(w, http.StatusOK, "Payment recorded successfully", result)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.CompleteAppointment(r.Context(), session, id)
	if err != nil {
		h.handleError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

func (h *AppointmentHandler) JoinMeeting(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	meeting, err := h.appointmentUsecase.JoinMeeting(r.Context(), session, id)
	if err != nil {
		h.handleError(w, err, "Failed to join meeting")
		return
	}

	response.Success(w, http.StatusOK, "Meeting retrieved successfully", meeting)
}

func (h *AppointmentHandler) handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, usecase.ErrNotAppointmentParty),
		errors.Is(err, usecase.ErrPatientOnly),
		errors.Is(err, usecase.ErrDoctorOnly),
		errors.Is(err, usecase.ErrWalletMismatch):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrWalletNotConnected),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidTime),
		errors.Is(err, usecase.ErrInvalidFee),
		errors.Is(err, usecase.ErrAmountMismatch):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrAppointmentConflict),
		errors.Is(err, usecase.ErrPaymentInProgress),
		errors.Is(err, usecase.ErrMeetingNotReady):
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
