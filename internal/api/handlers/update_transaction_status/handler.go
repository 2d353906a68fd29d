package update_transaction_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	"github.com/m04kA/VenueBookingService/internal/service/transactions"
	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

const (
	msgInvalidTransactionID = "некорректный ID транзакции"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "транзакция не найдена"
	msgInvalidStatus        = "некорректный статус"
	msgIllegalTransition    = "недопустимый переход статуса"
)

type Handler struct {
	service TransactionService
	logger  Logger
}

func NewHandler(service TransactionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/transactions/{transactionId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	transactionID, err := strconv.ParseInt(vars["transactionId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /transactions/{id}/status - Invalid transaction ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTransactionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /transactions/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateTransactionStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /transactions/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), transactionID, &models.UpdateTransactionStatusRequest{
		Status: req.Status,
		UserID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrInvalidInput):
			h.logger.Warn("PATCH /transactions/{id}/status - Invalid status: %q", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, transactions.ErrTransactionNotFound):
			h.logger.Warn("PATCH /transactions/{id}/status - Not found: transaction_id=%d", transactionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transactions.ErrInvalidStatusTransition):
			h.logger.Warn("PATCH /transactions/{id}/status - Illegal transition: transaction_id=%d, target=%s",
				transactionID, req.Status)
			handlers.RespondBadRequest(w, msgIllegalTransition)

		case errors.Is(err, transactions.ErrReconciliationFailed):
			h.logger.Warn("PATCH /transactions/{id}/status - Updated, reconciliation pending: transaction_id=%d",
				transactionID)
			handlers.RespondJSON(w, http.StatusAccepted, handlers.ErrorResponse{
				Error: "статус обновлен, сверка будет выполнена повторно",
			})

		default:
			h.logger.Error("PATCH /transactions/{id}/status - Failed: transaction_id=%d, error=%v",
				transactionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /transactions/{id}/status - Updated: transaction_id=%d, status=%s, user_id=%d",
		transactionID, req.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
