package dto

// Valores de "status" en las respuestas.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// ErrorResponse cuerpo de error HTTP y de CLI.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse construye un ErrorResponse con status "error".
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Message: message}
}
