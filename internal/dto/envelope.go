package dto

// Envelope is the wire convention shared by every CRM endpoint. Status is the
// string "true" or "false" (not a boolean), kept verbatim for client
// compatibility.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Envelope {
	return Envelope{Status: "true", Data: data}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Status: "false", Message: message}
}
