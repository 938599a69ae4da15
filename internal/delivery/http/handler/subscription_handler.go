package handler

import (
	"errors"
	"net/http"

	"go-telehealth/internal/usecase"
	"go-telehealth/pkg/response"
)

type SubscriptionHandler struct {
	subscriptionUsecase usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUsecase usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionUsecase: subscriptionUsecase}
}

func (h *SubscriptionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	status, err := h.subscriptionUsecase.CheckAccess(r.Context(), session)
	if err != nil {
		response.ServiceUnavailable(w, "Subscription status unavailable")
		return
	}

	response.Success(w, http.StatusOK, "Subscription status retrieved successfully", status)
}

// Subscribe buys one subscription period bound to the connected wallet
// @Summary Subscribe
// @Tags Subscriptions
// @Security BearerAuth
// @Param X-Wallet-Address header string true "Connected wallet"
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	subscription, err := h.subscriptionUsecase.Subscribe(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWalletNotConnected):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to subscribe")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Subscribed successfully", subscription)
}

func (h *SubscriptionHandler) ChatSession(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	chat, err := h.subscriptionUsecase.ChatSession(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSubscriptionInactive):
			response.PaymentRequired(w, "Active subscription required")
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to open chat session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Chat session opened", chat)
}
