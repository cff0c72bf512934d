package types

// SuccessEnvelope is the body of every 2xx JSON response.
type SuccessEnvelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   any         `json:"metadata,omitempty"`
}

// Pagination mirrors the page-based listing metadata.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}
