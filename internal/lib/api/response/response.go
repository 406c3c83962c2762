package response

// Response is the JSON envelope returned by every API handler.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Ok wraps a successful payload.
func Ok(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error wraps a failure message.
func Error(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}
