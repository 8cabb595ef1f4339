package dto

import "time"

// ErrorResponse is the JSON body returned for every non-2xx API response.
type ErrorResponse struct {
	Message      string    `json:"message" example:"ticker is required"`
	ErrorDetails string    `json:"error_details,omitempty" example:"invalid date"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so handlers can pass the value to c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
