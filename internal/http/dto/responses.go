package dto

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Success(data any) SuccessResponse {
	return SuccessResponse{OK: true, Data: data}
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}
