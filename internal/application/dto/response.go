// Package dto defines request/response shapes for the HTTP surface. The
// envelope is fixed for client compatibility: {success:true, data:...} on
// success and {success:false, message:...} on error.
package dto

// Envelope is the uniform API response wrapper.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a successful payload.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail wraps an error message. The message must already be client-safe;
// nothing internal is added here.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
