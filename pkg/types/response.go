package types

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageResponse is the small {message,...} body used by the info and status endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}
