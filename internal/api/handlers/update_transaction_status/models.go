package update_transaction_status

// UpdateTransactionStatusRequest HTTP request model
type UpdateTransactionStatusRequest struct {
	Status string `json:"status"`
}
