package http

import "time"

// APIResponse is the envelope every endpoint writes.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"weight_grams"`
	Message string                 `json:"message,omitempty" example:"weight_grams is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
