package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout haulctl
var (
	ErrNoToken          = errors.New("no API token configured")
	ErrTokenExpired     = errors.New("API token has expired")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidRowsCount = errors.New("rows per page must be one of 5, 10, 15, 20")
	ErrArchiveDisabled  = errors.New("archive storage is not configured")
	ErrMirrorDisabled   = errors.New("mirror database is not configured")
)

// HaulError is a structured error with context and suggestions
type HaulError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *HaulError) Error() string {
	return e.Title
}

func (e *HaulError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *HaulError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new HaulError
func NewError(title string) *HaulError {
	return &HaulError{Title: title}
}

// WithMessage adds a detailed message
func (e *HaulError) WithMessage(msg string) *HaulError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *HaulError) WithContext(ctx string) *HaulError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *HaulError) WithCauses(causes ...string) *HaulError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *HaulError) WithSuggestion(sug string) *HaulError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *HaulError) WithSuggestions(sugs ...string) *HaulError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *HaulError) Wrap(err error) *HaulError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// NoTokenError is returned when a command needs the backend but no token is stored.
func NoTokenError() *HaulError {
	return NewError("Not signed in").
		WithMessage("No API token found in the config directory or HAULCTL_TOKEN").
		WithSuggestions(
			"haulctl auth set-token <token>   # Store a token",
			"export HAULCTL_TOKEN=<token>     # Use a token for this shell",
		)
}

// TokenExpiredError is returned when the stored token's exp claim is in the past.
func TokenExpiredError(expired string) *HaulError {
	return NewError("API token has expired").
		WithContext("expired " + expired).
		WithSuggestion("haulctl auth set-token <token>   # Store a fresh token").
		Wrap(ErrTokenExpired)
}

// BackendUnreachableError wraps a transport failure against the backend.
func BackendUnreachableError(baseURL string, err error) *HaulError {
	return NewError("Cannot reach the backend").
		WithContext(baseURL).
		WithCauses(
			"The backend is down or restarting",
			"api.base_url points at the wrong host",
			"Network connectivity issues",
		).
		WithSuggestions(
			"haulctl config api.base_url           # Check the configured URL",
			"haulctl config api.base_url <url>     # Point at another backend",
		).
		Wrap(err)
}

// UnknownResourceError reports an unknown screen name, with a close match if there is one.
func UnknownResourceError(name string, known []string) *HaulError {
	e := NewError(fmt.Sprintf("Unknown resource '%s'", name)).Wrap(ErrUnknownResource)
	if match := Suggest(name, known); match != "" {
		e.WithMessage(fmt.Sprintf("Did you mean '%s'?", match))
	}
	return e.WithSuggestion("haulctl --help   # List available resources")
}

// UnknownConfigKeyError reports an unknown config key, with a close match if there is one.
func UnknownConfigKeyError(key string, known []string) *HaulError {
	e := NewError(fmt.Sprintf("Unknown config key '%s'", key))
	if match := Suggest(key, known); match != "" {
		e.WithMessage(fmt.Sprintf("Did you mean '%s'?", match))
	}
	return e.WithSuggestion("haulctl config --list   # Show all keys")
}

// RecordNotFoundError reports a missing record id in a loaded collection.
func RecordNotFoundError(resource, id string) *HaulError {
	return NewError(fmt.Sprintf("%s record '%s' not found", resource, id)).
		WithCauses(
			"The id is mistyped",
			"The record was deleted by someone else",
		).
		WithSuggestion(fmt.Sprintf("haulctl %s list --search <text>", resource)).
		Wrap(ErrRecordNotFound)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *HaulError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}
