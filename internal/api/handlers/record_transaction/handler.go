package record_transaction

import (
	"errors"
	"net/http"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	uc "github.com/m04kA/VenueBookingService/internal/usecase/record_transaction"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные транзакции"
	msgBookingNotFound    = "бронирование не найдено"
	msgPONotFound         = "заказ поставщику не найден"
)

type Handler struct {
	useCase RecordTransactionUseCase
	logger  Logger
}

func NewHandler(useCase RecordTransactionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/transactions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /transactions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RecordTransactionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /transactions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("POST /transactions - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, uc.ErrBookingNotFound):
			h.logger.Warn("POST /transactions - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, uc.ErrPONotFound):
			h.logger.Warn("POST /transactions - Purchase order not found")
			handlers.RespondNotFound(w, msgPONotFound)

		case errors.Is(err, uc.ErrReconciliationPending):
			// Транзакция записана, сверка будет повторена фоном.
			// Клиенту отвечаем 202: запись принята, производное
			// состояние догонит леджер.
			h.logger.Warn("POST /transactions - Recorded, reconciliation pending: booking_id=%d", req.BookingID)
			handlers.RespondJSON(w, http.StatusAccepted, handlers.ErrorResponse{
				Error: "транзакция записана, сверка будет выполнена повторно",
			})

		default:
			h.logger.Error("POST /transactions - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /transactions - Transaction recorded: id=%d, reference=%s, user_id=%d",
		resp.ID, resp.Reference, userID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
