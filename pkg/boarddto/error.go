package boarddto

// ErrorResponse is the JSON body of a failed HTTP request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}
