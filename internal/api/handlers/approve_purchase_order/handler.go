package approve_purchase_order

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
	msgInvalidPOID   = "некорректный ID заказа"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "заказ поставщику не найден"
	msgCannotApprove = "заказ не может быть одобрен в текущем статусе"
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

// Handle PATCH /api/v1/purchase-orders/{poId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	poID, err := strconv.ParseInt(vars["poId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /purchase-orders/{id}/approve - Invalid PO ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPOID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /purchase-orders/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	po, err := h.service.Approve(r.Context(), poID, userID)
	if err != nil {
		switch {
		case errors.Is(err, purchaseorders.ErrPONotFound):
			h.logger.Warn("PATCH /purchase-orders/{id}/approve - Not found: po_id=%d", poID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, purchaseorders.ErrStatusConflict):
			h.logger.Warn("PATCH /purchase-orders/{id}/approve - Cannot approve: po_id=%d", poID)
			handlers.RespondConflict(w, msgCannotApprove)

		default:
			h.logger.Error("PATCH /purchase-orders/{id}/approve - Failed: po_id=%d, error=%v", poID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /purchase-orders/{id}/approve - Approved: po_id=%d, user_id=%d", poID, userID)
	handlers.RespondJSON(w, http.StatusOK, po)
}
