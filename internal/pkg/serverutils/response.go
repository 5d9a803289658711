package serverutils

// ApiResponse is the standard success envelope returned by every endpoint.
type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ApiError is the envelope for failed requests.
type ApiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ErrorResponse(message string) ApiError {
	return ApiError{
		Success: false,
		Message: message,
	}
}
