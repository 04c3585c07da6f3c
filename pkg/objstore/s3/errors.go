package s3

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// wrapErr converts SDK failures into errors that satisfy the objstore
// sentinel contract. Unclassified errors keep the SDK detail.
func wrapErr(op string, loc objstore.Location, err error) error {
	if err == nil {
		return nil
	}
	if s := sentinel(err); s != nil {
		return fmt.Errorf("s3: %s %q: %w", op, loc, s)
	}
	return fmt.Errorf("s3: %s %q: %w", op, loc, err)
}

// sentinel maps a classifiable SDK error to the matching objstore sentinel,
// or nil. Modeled error types are checked first, then API error codes, then
// the raw HTTP status for responses the SDK does not model (HeadObject has
// no body to decode, 304 and 412 have none either).
func sentinel(err error) error {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return objstore.ErrNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return objstore.ErrNotFound
		case "AccessDenied":
			return objstore.ErrPermissionDenied
		case "PreconditionFailed":
			return objstore.ErrPreconditionFailed
		case "NotModified":
			return objstore.ErrNotModified
		}
	}

	if status, ok := httpStatusCode(err); ok {
		switch status {
		case http.StatusNotFound:
			return objstore.ErrNotFound
		case http.StatusForbidden:
			return objstore.ErrPermissionDenied
		case http.StatusUnauthorized:
			return objstore.ErrUnauthenticated
		case http.StatusNotModified:
			return objstore.ErrNotModified
		case http.StatusPreconditionFailed:
			return objstore.ErrPreconditionFailed
		}
	}
	return nil
}

func httpStatusCode(err error) (int, bool) {
	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		return statusErr.HTTPStatusCode(), true
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode(), true
	}
	return 0, false
}
