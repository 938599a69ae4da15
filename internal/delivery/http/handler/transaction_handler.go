package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go-telehealth/internal/usecase"
	"go-telehealth/pkg/response"
)

type TransactionHandler struct {
	transactionUsecase usecase.TransactionUsecase
}

func NewTransactionHandler(transactionUsecase usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{transactionUsecase: transactionUsecase}
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	transactions, err := h.transactionUsecase.ListTransactions(r.Context(), session)
	if err != nil {
		response.InternalServerError(w, "Failed to get transactions")
		return
	}

	response.Success(w, http.StatusOK, "Transactions retrieved successfully", transactions)
}

// GetReceipt streams a PDF receipt for one transaction
// @Summary Download a transaction receipt
// @Tags Transactions
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Transaction ID"
// @Success 200 {file} file
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id}/receipt [get]
func (h *TransactionHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "transaction")
	if !ok {
		return
	}

	body, err := h.transactionUsecase.GetReceipt(r.Context(), session, id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTransactionNotFound):
			response.NotFound(w, "Transaction not found")
		case errors.Is(err, usecase.ErrNotTransactionParty):
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to render receipt")
		}
		return
	}

	response.PDF(w, fmt.Sprintf("receipt-%s.pdf", id), body)
}
