package cancel_purchase_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders"
)

const (
	msgInvalidPOID        = "некорректный ID заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingReason      = "не указана причина отмены"
	msgNotFound           = "заказ поставщику не найден"
	msgCannotCancel       = "заказ не может быть отменен в текущем статусе"
)

type Handler struct {
	service PurchaseOrderService
	logger  Logger
}

func NewHandler(service PurchaseOrderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/purchase-orders/{poId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	poID, err := strconv.ParseInt(vars["poId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Invalid PO ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPOID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelPORequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	po, err := h.service.Cancel(r.Context(), poID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, purchaseorders.ErrInvalidInput):
			h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Missing reason: po_id=%d", poID)
			handlers.RespondBadRequest(w, msgMissingReason)

		case errors.Is(err, purchaseorders.ErrPONotFound):
			h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Not found: po_id=%d", poID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, purchaseorders.ErrStatusConflict):
			h.logger.Warn("PATCH /purchase-orders/{id}/cancel - Cannot cancel: po_id=%d", poID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /purchase-orders/{id}/cancel - Failed: po_id=%d, error=%v", poID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /purchase-orders/{id}/cancel - Cancelled: po_id=%d, user_id=%d", poID, userID)
	handlers.RespondJSON(w, http.StatusOK, po)
}
