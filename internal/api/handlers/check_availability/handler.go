package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/service/availability"
)

const (
	msgInvalidVenueID  = "некорректный ID площадки"
	msgInvalidStart    = "некорректный параметр startTime"
	msgInvalidEnd      = "некорректный параметр endTime"
	msgInvalidInterval = "некорректный интервал"
	msgVenueNotFound   = "площадка не найдена"
	msgInvalidExclude  = "некорректный параметр excludeBookingId"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/availability?startTime=...&endTime=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	venueID, err := strconv.ParseInt(vars["venueId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /venues/{id}/availability - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /venues/{id}/availability - Invalid startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /venues/{id}/availability - Invalid endTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEnd)
		return
	}

	var excludeID *int64
	if excludeStr := r.URL.Query().Get("excludeBookingId"); excludeStr != "" {
		id, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /venues/{id}/availability - Invalid excludeBookingId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExclude)
			return
		}
		excludeID = &id
	}

	free, err := h.service.IsSlotFree(r.Context(), venueID, start, end, excludeID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInterval):
			h.logger.Warn("GET /venues/{id}/availability - Invalid interval: venue_id=%d", venueID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, availability.ErrVenueNotFound):
			h.logger.Warn("GET /venues/{id}/availability - Venue not found: venue_id=%d", venueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		default:
			h.logger.Error("GET /venues/{id}/availability - Failed: venue_id=%d, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{Available: free})
}
