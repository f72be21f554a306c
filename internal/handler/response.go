package handler

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope shared by every portal endpoint,
// so the web client can branch on a stable code while showing the message.
type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

// NewErrorResponse builds the envelope for an error reply. Code is a stable
// machine-readable identifier (e.g. "forbidden", "bad_frame"); message is the
// human-readable detail and may change between releases.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}
