package dto

// SetPaymentMappingRequest points a payment method at an account.
type SetPaymentMappingRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required,numeric,max=10"`
	Description   string `json:"description"`
}

// NextNumberResponse carries a freshly issued document number.
type NextNumberResponse struct {
	Number string `json:"number"`
}

// CancelNumberRequest cancels an issued document number.
type CancelNumberRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
