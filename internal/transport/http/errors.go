package httptransport

import (
	"encoding/json"
	"fmt"
)

// RequestError is a non-successful API response. Its message is meant to be
// shown to the user verbatim.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// FromResponse builds a RequestError from a non-2xx response.
func FromResponse(resp *Response) *RequestError {
	return &RequestError{Status: resp.Status, Message: ErrorMessage(resp)}
}

// StatusMessage is the fallback used when the body carries no usable message.
func StatusMessage(status int) string {
	return fmt.Sprintf("Request failed (%d)", status)
}

// ErrorMessage extracts a human-readable message from a response body:
// empty bodies and JSON without a message use the status fallback, JSON
// bodies use their "message" field and anything else is returned as is.
func ErrorMessage(resp *Response) string {
	text := string(resp.Body)
	if text == "" {
		return StatusMessage(resp.Status)
	}

	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return text
	}

	if fields, ok := payload.(map[string]any); ok {
		if message, ok := fields["message"].(string); ok && message != "" {
			return message
		}
	}
	return StatusMessage(resp.Status)
}
