package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"voteparty/internal/domain"
)

// ErrorPayload is the decoded body of a failed response. It is either a
// StructuredError or a PlainTextError.
type ErrorPayload interface {
	isErrorPayload()
}

// StructuredError is a JSON error object such as {"error": "..."}.
type StructuredError struct {
	Message string
}

// PlainTextError is any body that is not a JSON object.
type PlainTextError struct {
	Text string
}

func (StructuredError) isErrorPayload() {}
func (PlainTextError) isErrorPayload()  {}

// decodeErrorBody never fails: anything that is not a JSON object is kept as
// plain text.
func decodeErrorBody(body []byte) ErrorPayload {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Error   *string `json:"error"`
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			switch {
			case obj.Error != nil && *obj.Error != "":
				return StructuredError{Message: *obj.Error}
			case obj.Message != nil:
				return StructuredError{Message: *obj.Message}
			default:
				return StructuredError{}
			}
		}
	}
	return PlainTextError{Text: string(trimmed)}
}

// payloadMessage picks the structured message, then the raw text, then the
// status phrase.
func payloadMessage(p ErrorPayload, statusText string) string {
	switch v := p.(type) {
	case StructuredError:
		if v.Message != "" {
			return v.Message
		}
	case PlainTextError:
		if v.Text != "" {
			return v.Text
		}
	}
	return statusText
}

// APIError is a non-success response of the party service.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	Payload    ErrorPayload
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: %d %s: %s", e.Status, e.StatusText, e.Message)
}

func (e *APIError) Kind() domain.Kind {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.KindConflict
	default:
		return domain.KindServerFailure
	}
}

// Unwrap lets errors.Is match domain.ErrUnauthenticated on 401.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrUnauthenticated
	}
	return nil
}

// TransportError is a request that never got a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error     { return e.Err }
func (e *TransportError) Kind() domain.Kind { return domain.KindTransportFailure }

func unauthenticated() *APIError {
	return &APIError{
		Status:     http.StatusUnauthorized,
		StatusText: http.StatusText(http.StatusUnauthorized),
		Message:    "not authenticated",
		Payload:    StructuredError{Message: "not authenticated"},
	}
}

func statusPhrase(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode)); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
