package get_purchase_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders"
)

const (
	msgInvalidPOID = "некорректный ID заказа"
	msgNotFound    = "заказ поставщику не найден"
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

// Handle GET /api/v1/purchase-orders/{poId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	poID, err := strconv.ParseInt(vars["poId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /purchase-orders/{id} - Invalid PO ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPOID)
		return
	}

	po, err := h.service.GetByID(r.Context(), poID)
	if err != nil {
		switch {
		case errors.Is(err, purchaseorders.ErrPONotFound):
			h.logger.Warn("GET /purchase-orders/{id} - Not found: po_id=%d", poID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /purchase-orders/{id} - Failed: po_id=%d, error=%v", poID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, po)
}
