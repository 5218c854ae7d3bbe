package api

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Kind classifies a failed backend operation.
type Kind int

const (
	// KindTransport is a network failure or a non-2xx status.
	KindTransport Kind = iota + 1
	// KindApplication is a 2xx response whose payload says success:false.
	KindApplication
	// KindValidation is a form missing required fields; nothing was sent.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// GenericMessage is shown when neither the backend nor the transport gave
// anything better.
const GenericMessage = "Something went wrong. Please try again."

// Error is the single error type returned by Client operations.
type Error struct {
	Kind      Kind
	Op        string // e.g. "GET /customers/all"
	Status    int    // HTTP status, 0 when no response arrived
	Message   string // backend-provided message, already sanitized
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Status != 0 {
		sb.WriteString(fmt.Sprintf(": status %d", e.Status))
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	} else if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DisplayMessage derives the banner text for any error: the backend's own
// message when there is one, otherwise a generic one.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch {
		case apiErr.Kind == KindTransport && apiErr.Status == 0:
			return "Cannot reach the server. Check your connection."
		case apiErr.Status == 401 || apiErr.Status == 403:
			return "Your session is not authorized. Sign in again."
		case apiErr.Status == 404:
			return "The requested record no longer exists."
		}
		return GenericMessage
	}
	return GenericMessage
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

var messagePolicy = bluemonday.StrictPolicy()

// sanitizeMessage strips any markup the backend embeds in its messages so
// they render as plain terminal text.
func sanitizeMessage(msg string) string {
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(msg)))
}

// ValidateRequired returns a validation error naming every required field
// that is missing or blank in fields.
func ValidateRequired(res Resource, fields Record) error {
	var missing []string
	for _, f := range res.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(fields.Text(f.Name)) == "" {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Error{
		Kind:    KindValidation,
		Op:      "validate " + res.Name,
		Message: "Please fill in: " + strings.Join(missing, ", "),
	}
}
