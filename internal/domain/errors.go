package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

type FailureKind int

const (
	FailureUnknown FailureKind = iota
	// FailureRedirect means the catalog redirected instead of serving the resource, i.e. the book doesn't exist.
	FailureRedirect
	FailureTransport
	FailureParse
	FailureHTTPStatus
	FailureStorage
	FailureContent
)

func (k FailureKind) String() string {
	switch k {
	case FailureRedirect:
		return "redirect"
	case FailureTransport:
		return "transport"
	case FailureParse:
		return "parse"
	case FailureHTTPStatus:
		return "http status"
	case FailureStorage:
		return "storage"
	case FailureContent:
		return "content"
	default:
		return "unknown"
	}
}

type RetrievalError struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status code %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of the first RetrievalError in err's chain.
func KindOf(err error) FailureKind {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Kind
	}
	return FailureUnknown
}

func NewRedirectError(url string, err error) error {
	return &RetrievalError{Kind: FailureRedirect, URL: url, Err: err}
}

func NewTransportError(url string, err error) error {
	return &RetrievalError{Kind: FailureTransport, URL: url, Err: err}
}

func NewParseError(url string, err error) error {
	return &RetrievalError{Kind: FailureParse, URL: url, Err: err}
}

func NewHTTPStatusError(url string, statusCode int) error {
	return &RetrievalError{Kind: FailureHTTPStatus, URL: url, StatusCode: statusCode}
}

func NewStorageError(path string, err error) error {
	return &RetrievalError{Kind: FailureStorage, URL: path, Err: err}
}

func NewContentError(url string, err error) error {
	return &RetrievalError{Kind: FailureContent, URL: url, Err: err}
}
