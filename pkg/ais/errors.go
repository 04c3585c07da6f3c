package ais

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// ErrorKind classifies client failures so callers can branch on the failure
// mode without matching message strings.
type ErrorKind int

const (
	// KindHTTP is a non-2xx response with no more specific mapping.
	KindHTTP ErrorKind = iota
	// KindRequest is a transport failure that survived the retry budget.
	KindRequest
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindAlreadyExists
	KindNotModified
	KindPreconditionFailed
	// KindInvalidResponse means the response arrived but its payload or
	// headers could not be interpreted.
	KindInvalidResponse
	KindConfiguration
	KindTooManyRedirects
	KindRedirectWithoutLocation
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http error"
	case KindRequest:
		return "request error"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindAlreadyExists:
		return "already exists"
	case KindNotModified:
		return "not modified"
	case KindPreconditionFailed:
		return "precondition failed"
	case KindInvalidResponse:
		return "invalid response"
	case KindConfiguration:
		return "configuration error"
	case KindTooManyRedirects:
		return "too many redirects"
	case KindRedirectWithoutLocation:
		return "redirect without location"
	}
	return "unknown"
}

// Error is the error type returned by the client. Status and Body are set
// when the failure came from an HTTP response.
type Error struct {
	Kind     ErrorKind
	Op       string
	Location objstore.Location
	Status   int
	Body     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("ais: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		if e.Location != "" {
			fmt.Fprintf(&sb, " %q", string(e.Location))
		}
		sb.WriteString(": ")
	}
	switch {
	case e.Message != "":
		sb.WriteString(e.Message)
	case e.Err != nil:
		sb.WriteString(e.Err.Error())
	default:
		sb.WriteString(e.Kind.String())
	}
	if e.Kind == KindHTTP && e.Body != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Body)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is maps error kinds onto the objstore sentinels so callers can use
// errors.Is across store implementations.
func (e *Error) Is(target error) bool {
	switch target {
	case objstore.ErrNotFound:
		return e.Kind == KindNotFound
	case objstore.ErrPermissionDenied:
		return e.Kind == KindForbidden
	case objstore.ErrUnauthenticated:
		return e.Kind == KindUnauthorized
	case objstore.ErrAlreadyExists:
		return e.Kind == KindAlreadyExists
	case objstore.ErrNotModified:
		return e.Kind == KindNotModified
	case objstore.ErrPreconditionFailed:
		return e.Kind == KindPreconditionFailed
	}
	return false
}

// maxErrBody caps how much of a response body is carried inside an error.
const maxErrBody = 512

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrBody {
		return s[:maxErrBody] + "..."
	}
	return s
}

// translateStatus maps a non-2xx response onto a typed Error. Statuses
// without a defined meaning keep the raw status and body under KindHTTP.
func translateStatus(op string, loc objstore.Location, status int, body []byte) *Error {
	e := &Error{Op: op, Location: loc, Status: status, Body: truncateBody(body)}
	switch status {
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "object not found"
	case http.StatusForbidden:
		e.Kind = KindForbidden
		e.Message = "access forbidden"
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		e.Message = "unauthorized"
	case http.StatusConflict:
		e.Kind = KindAlreadyExists
		e.Message = "object already exists"
	case http.StatusNotModified:
		e.Kind = KindNotModified
		e.Message = "not modified"
	case http.StatusPreconditionFailed:
		e.Kind = KindPreconditionFailed
		e.Message = "precondition failed"
	default:
		e.Kind = KindHTTP
		e.Message = fmt.Sprintf("unexpected status %d", status)
	}
	return e
}

// configErrorf reports a configuration problem detected before any request
// is sent.
func configErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}
