package owm

import "fmt"

// NetworkError is a transport-level failure: DNS, refused connection,
// timeout or a body that is not a JSON object.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network/API request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a provider-reported failure carried in the response body.
type APIError struct {
	Message string
	// Code is the embedded cod value as sent by the provider.
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (cod=%s)", e.Message, e.Code)
}

// MissingFieldError reports a body without main.temp. Field names the
// path that was looked up.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Temperature field missing from API response"
}
