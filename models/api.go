package models

// APIResponse is the envelope every endpoint returns. Assignment outcomes
// ride in Data; a sweep that assigns nobody is still a success.
type APIResponse struct {
	Status  string      `json:"status"`            // "success" or "error"
	Code    int         `json:"code"`              // HTTP status code mirrored into the body
	Message string      `json:"message,omitempty"` // Human-readable outcome, e.g. "Team assigned successfully"
	Data    interface{} `json:"data,omitempty"`    // Team, victim, sweep result, etc.
	Error   *APIError   `json:"error,omitempty"`   // Populated only on error responses
}

// APIError carries the machine-readable error class alongside the message.
type APIError struct {
	Type    string `json:"type,omitempty"`    // "NotFoundError", "InvalidStateError", "ConflictError", "ValidationError"
	Details string `json:"details,omitempty"` // More context about the failure
	Field   string `json:"field,omitempty"`   // Which request field failed validation
}
