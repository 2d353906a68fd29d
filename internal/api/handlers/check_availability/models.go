package check_availability

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
