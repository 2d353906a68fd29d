package generate_purchase_orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	uc "github.com/m04kA/VenueBookingService/internal/usecase/generate_purchase_orders"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgCancelled        = "бронирование отменено"
	msgAlreadyExist     = "заказы поставщикам уже сгенерированы"
	msgNoVendors        = "у бронирования нет назначенных поставщиков"
)

type Handler struct {
	useCase GeneratePurchaseOrdersUseCase
	logger  Logger
}

func NewHandler(useCase GeneratePurchaseOrdersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/purchase-orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/purchase-orders - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/purchase-orders - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &uc.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/purchase-orders - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, uc.ErrBookingCancelled):
			h.logger.Warn("POST /bookings/{id}/purchase-orders - Booking cancelled: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, uc.ErrPurchaseOrdersExist):
			h.logger.Warn("POST /bookings/{id}/purchase-orders - Already exist: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyExist)

		case errors.Is(err, uc.ErrNoVendorsAssigned):
			h.logger.Warn("POST /bookings/{id}/purchase-orders - No vendors: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgNoVendors)

		default:
			h.logger.Error("POST /bookings/{id}/purchase-orders - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/purchase-orders - Generated: booking_id=%d, created=%d, failed=%d",
		bookingID, len(resp.PurchaseOrders), len(resp.Failed))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
