package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/licensedb/fsf-api/internal/fsf"
	"github.com/licensedb/fsf-api/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorRateLimit = "rate_limit"
	ErrorParsing   = "parsing"
	ErrorTables    = "tables"
	ErrorUnknown   = "unknown"
)

// ClassifyError maps a pipeline failure to a coarse kind for the final
// log line and exit message.
func ClassifyError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorNetwork
	}
	var ee *fsf.ExtractionError
	if errors.As(err, &ee) {
		return ErrorParsing
	}
	var oce *fsf.OverrideConflictError
	if errors.As(err, &oce) {
		return ErrorTables
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorUnknown
}
