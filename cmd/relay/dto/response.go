package dto

const (
	ErrUnauthorized    = "Unauthorized"
	ErrMissingData     = "Missing required data"
	ErrUnexpectedError = "An unexpected error occurred"
)

// ErrorResponseDTO 는 공통 에러 응답 형식이다.
// Details 는 플랫폼 응답 JSON 원문이거나 에러 문자열이다.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"Failed to get access_token"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}
